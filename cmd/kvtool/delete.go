// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"

	"github.com/kvsuite/kvdb"
)

// deleteCmd defines the configuration options for the delete command.
type deleteCmd struct {
	Sync bool `long:"sync" description:"Flush the write to stable storage before returning"`
}

var (
	// deleteCfg defines the configuration options for the command.
	deleteCfg = deleteCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *deleteCmd) Execute(args []string) error {
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

	err = db.Delete(kvdb.WriteOptions{Sync: cmd.Sync}, key)
	if err != nil {
		return err
	}
	log.Infof("Removed key '%s'", key)
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *deleteCmd) Usage() string {
	return "<key>"
}
