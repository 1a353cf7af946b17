// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"time"
)

// compactCmd defines the configuration options for the compact command.
type compactCmd struct{}

var (
	// compactCfg defines the configuration options for the command.
	compactCfg = compactCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *compactCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if len(args) < 2 {
		return errors.New("required start and limit key parameters not specified")
	}
	start, limit := args[0], args[1]

	// Load the database.
	db, err := loadDB()
	if err != nil {
		return err
	}
	defer db.Close()

	startTime := time.Now()
	db.Compact(start, limit)
	log.Infof("Compacted range ['%s', '%s') in %v", start, limit,
		time.Since(startTime))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *compactCmd) Usage() string {
	return "<start> <limit>"
}
