// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/btcsuite/btclog"
	flags "github.com/jessevdk/go-flags"
	"github.com/kvsuite/kvdb"
)

const (
	// dbNamePrefix is the prefix for the database directory name.
	dbNamePrefix = "store"
)

var (
	log btclog.Logger
)

// loadDB opens the key-value database and returns a handle to it.
func loadDB() (*kvdb.DB[string], error) {
	// The database name is based on the database type.
	dbName := dbNamePrefix + "_" + cfg.DbType
	dbPath := filepath.Join(cfg.DataDir, dbName)

	log.Infof("Loading database from '%s'", dbPath)
	db, err := kvdb.Open(cfg.DbType, dbPath, kvdb.StringCodec{})
	if err != nil {
		// Return the error if it's not because the database doesn't
		// exist.
		if dbErr, ok := err.(kvdb.Error); !ok || dbErr.ErrorCode !=
			kvdb.ErrDbDoesNotExist {

			return nil, err
		}

		// Create the db if it does not exist.
		err = os.MkdirAll(cfg.DataDir, 0700)
		if err != nil {
			return nil, err
		}
		db, err = kvdb.Create(cfg.DbType, dbPath, kvdb.StringCodec{})
		if err != nil {
			return nil, err
		}
	}

	log.Info("Database loaded")
	return db, nil
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	// Setup logging.
	backendLogger := btclog.NewBackend(os.Stdout)
	defer os.Stdout.Sync()
	log = backendLogger.Logger("MAIN")
	dbLog := backendLogger.Logger("KVDB")
	dbLog.SetLevel(btclog.LevelDebug)
	kvdb.UseLogger(dbLog)

	// Setup the parser options and commands.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName, parserFlags)
	parser.AddGroup("Global Options", "", cfg)
	parser.AddCommand("put",
		"Store a key/value pair in the database", "", &putCfg)
	parser.AddCommand("get",
		"Fetch the value stored under the given key", "", &getCfg)
	parser.AddCommand("delete",
		"Remove the given key from the database", "", &deleteCfg)
	parser.AddCommand("dump",
		"Dump all key/value pairs within an optional key range", "",
		&dumpCfg)
	parser.AddCommand("compact",
		"Compact the underlying storage for the given key range", "",
		&compactCfg)

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		} else {
			log.Error(err)
		}

		return err
	}

	return nil
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
