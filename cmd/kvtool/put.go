// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"time"

	"github.com/kvsuite/kvdb"
)

// putCmd defines the configuration options for the put command.
type putCmd struct {
	Sync bool `long:"sync" description:"Flush the write to stable storage before returning"`
}

var (
	// putCfg defines the configuration options for the command.
	putCfg = putCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *putCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	if len(args) < 2 {
		return errors.New("required key and value parameters not specified")
	}
	key, value := args[0], args[1]

	// Load the database.
	db, err := loadDB()
	if err != nil {
		return err
	}
	defer db.Close()

	startTime := time.Now()
	err = db.Put(kvdb.WriteOptions{Sync: cmd.Sync}, key, []byte(value))
	if err != nil {
		return err
	}
	log.Infof("Stored key '%s' in %v", key, time.Since(startTime))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *putCmd) Usage() string {
	return "<key> <value>"
}
