// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kvsuite/kvdb"
	_ "github.com/kvsuite/kvdb/engine/leveldb"
	_ "github.com/kvsuite/kvdb/engine/pebbledb"
)

var (
	knownDbTypes = kvdb.SupportedDrivers()

	// Default global config.
	cfg = &config{
		DataDir: filepath.Join(os.TempDir(), "kvtool"),
		DbType:  "leveldb",
	}
)

// config defines the global configuration options.
type config struct {
	DataDir string `short:"b" long:"datadir" description:"Location of the database directory"`
	DbType  string `long:"dbtype" description:"Database backend to use for the store"`
}

// validDbType returns whether or not dbType is a supported database type.
func validDbType(dbType string) bool {
	for _, knownType := range knownDbTypes {
		if dbType == knownType {
			return true
		}
	}

	return false
}

// setupGlobalConfig examine the global configuration options for any conditions
// which are invalid as well as performs any addition setup necessary after the
// initial parse.
func setupGlobalConfig() error {
	// Validate database type.
	if !validDbType(cfg.DbType) {
		str := "the specified database type [%v] is invalid -- " +
			"supported types %v"
		return fmt.Errorf(str, cfg.DbType, knownDbTypes)
	}

	return nil
}
