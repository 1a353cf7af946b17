// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"time"

	"github.com/kvsuite/kvdb"
)

// getCmd defines the configuration options for the get command.
type getCmd struct{}

var (
	// getCfg defines the configuration options for the command.
	getCfg = getCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *getCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if len(args) < 1 {
		return errors.New("required key parameter not specified")
	}
	key := args[0]

	// Load the database.
	db, err := loadDB()
	if err != nil {
		return err
	}
	defer db.Close()

	startTime := time.Now()
	value, err := db.Get(kvdb.ReadOptions{}, key)
	if err != nil {
		return err
	}
	if value == nil {
		log.Infof("Key '%s' not found", key)
		return nil
	}
	log.Infof("Loaded value in %v", time.Since(startTime))
	log.Infof("%s = %s", key, value)
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *getCmd) Usage() string {
	return "<key>"
}
