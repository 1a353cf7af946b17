// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/kvsuite/kvdb"
)

// dumpCmd defines the configuration options for the dump command.
type dumpCmd struct {
	Snapshot bool `long:"snapshot" description:"Read through a point-in-time snapshot of the store"`
}

var (
	// dumpCfg defines the configuration options for the command.
	dumpCfg = dumpCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *dumpCmd) Execute(args []string) error {
	// Setup the global config options and ensure they are valid.
	if err := setupGlobalConfig(); err != nil {
		return err
	}

	// Optional start and limit keys bound the dump.
	var start, limit string
	if len(args) > 0 {
		start = args[0]
	}
	if len(args) > 1 {
		limit = args[1]
	}

	// Load the database.
	db, err := loadDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Optionally freeze the state being dumped so concurrent writers
	// don't show up partway through.
	var iter *kvdb.Iterator[string]
	if cmd.Snapshot {
		snap, err := db.Snapshot()
		if err != nil {
			return err
		}
		defer snap.Release()
		iter = snap.NewIterator(kvdb.ReadOptions{})
	} else {
		iter = db.NewIterator(kvdb.ReadOptions{})
	}
	defer iter.Release()

	startTime := time.Now()
	numEntries := 0
	for iter.Next() {
		key := iter.Key()
		if key < start {
			continue
		}
		if limit != "" && key >= limit {
			break
		}
		log.Infof("%s = %s", key, iter.Value())
		numEntries++
	}
	if err := iter.Error(); err != nil {
		return err
	}
	log.Infof("Dumped %d entries in %v", numEntries, time.Since(startTime))
	return nil
}

// Usage overrides the usage display for the command.
func (cmd *dumpCmd) Usage() string {
	return "[<start> [<limit>]]"
}
