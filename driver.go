// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import (
	"fmt"

	"github.com/kvsuite/kvdb/engine"
)

// Driver defines a structure for backend drivers to use when they
// register themselves as a backend which implements the engine.Engine
// interface.
type Driver struct {
	// DbType is the identifier used to uniquely identify a specific
	// database driver.  There can be only one driver with the same
	// database type.
	DbType string

	// Create is the function that will be invoked with all user-specified
	// arguments to create the database.  This function must return
	// ErrDbExists if the database already exists.
	Create func(dbPath string) (engine.Engine, error)

	// Open is the function that will be invoked with all user-specified
	// arguments to open the database.  This function must return
	// ErrDbDoesNotExist if the database has not already been created.
	Open func(dbPath string) (engine.Engine, error)
}

// driverList holds all of the registered database backends.
var drivers = make(map[string]*Driver)

// RegisterDriver adds a backend database driver to available interfaces.
// ErrDbTypeRegistered will be returned if the database type for the driver
// has already been registered.
func RegisterDriver(driver Driver) error {
	if _, exists := drivers[driver.DbType]; exists {
		str := fmt.Sprintf("driver %q is already registered",
			driver.DbType)
		return makeError(ErrDbTypeRegistered, str, nil)
	}

	drivers[driver.DbType] = &driver
	return nil
}

// SupportedDrivers returns a slice of strings that represent the database
// drivers that have been registered and are therefore supported.
func SupportedDrivers() []string {
	supportedDBs := make([]string, 0, len(drivers))
	for _, drv := range drivers {
		supportedDBs = append(supportedDBs, drv.DbType)
	}
	return supportedDBs
}

// lookupDriver returns the registered driver for dbType or an
// ErrDbUnknownType error when no driver with that name exists.
func lookupDriver(dbType string) (*Driver, error) {
	drv, exists := drivers[dbType]
	if !exists {
		str := fmt.Sprintf("driver %q is not registered", dbType)
		return nil, makeError(ErrDbUnknownType, str, nil)
	}
	return drv, nil
}

// Create initializes and opens a database of the given type at dbPath,
// returning a typed handle whose keys are converted through codec.  An
// ErrDbExists error is returned when a database already exists at the
// path.
func Create[K any](dbType, dbPath string, codec Codec[K]) (*DB[K], error) {
	drv, err := lookupDriver(dbType)
	if err != nil {
		return nil, err
	}

	log.Debugf("Creating %s database at %s", dbType, dbPath)
	eng, err := drv.Create(dbPath)
	if err != nil {
		return nil, convertErr("failed to create database", err)
	}
	return newDB(eng, codec), nil
}

// Open opens an existing database of the given type at dbPath, returning
// a typed handle whose keys are converted through codec.  An
// ErrDbDoesNotExist error is returned when no database exists at the
// path.
func Open[K any](dbType, dbPath string, codec Codec[K]) (*DB[K], error) {
	drv, err := lookupDriver(dbType)
	if err != nil {
		return nil, err
	}

	log.Debugf("Opening %s database at %s", dbType, dbPath)
	eng, err := drv.Open(dbPath)
	if err != nil {
		return nil, convertErr("failed to open database", err)
	}
	return newDB(eng, codec), nil
}
