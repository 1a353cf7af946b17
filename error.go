// Copyright (c) 2024 The kvsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kvdb

import "fmt"

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrDbTypeRegistered indicates two different backend drivers
	// attempted to register with the name database type.
	ErrDbTypeRegistered ErrorCode = iota

	// ErrDbUnknownType indicates there is no driver registered for
	// the specified database type.
	ErrDbUnknownType

	// ErrDbDoesNotExist indicates open is called for a database that
	// does not exist.
	ErrDbDoesNotExist

	// ErrDbExists indicates create is called for a database that
	// already exists.
	ErrDbExists

	// ErrDbNotOpen indicates a database instance is accessed before
	// it is opened or after it is closed.
	ErrDbNotOpen

	// ErrBatchClosed indicates an attempt to use a write batch after
	// its native resource has been released via Close.
	ErrBatchClosed

	// ErrSnapshotReleased indicates an attempt to read through a
	// snapshot after it has been released back to the engine.
	ErrSnapshotReleased

	// ErrDriverSpecific indicates the Err field is a driver-specific
	// error.  This provides a mechanism for drivers to plug-in their
	// own custom errors for any situations which aren't already
	// covered by the error codes provided by this package.
	ErrDriverSpecific

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDbTypeRegistered: "ErrDbTypeRegistered",
	ErrDbUnknownType:    "ErrDbUnknownType",
	ErrDbDoesNotExist:   "ErrDbDoesNotExist",
	ErrDbExists:         "ErrDbExists",
	ErrDbNotOpen:        "ErrDbNotOpen",
	ErrBatchClosed:      "ErrBatchClosed",
	ErrSnapshotReleased: "ErrSnapshotReleased",
	ErrDriverSpecific:   "ErrDriverSpecific",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen during database
// operation.  It is used to indicate several types of failures including
// errors with caller requests such as an unknown database type, and errors
// reported by the underlying storage engine.
//
// The caller can use type assertions to determine if an error is an Error
// and access the ErrorCode field to ascertain the specific reason for the
// failure.
//
// The ErrDriverSpecific error code will also have the Err field set with
// the underlying error.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error, if any, so errors.Is and errors.As
// can reach engine diagnostics carried under ErrDriverSpecific.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.  The error code must
// be one of the error codes provided by this package.
func makeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// convertErr converts the passed engine error into an Error with the
// passed description unless it is already an Error, in which case it is
// returned unchanged so the original error code survives propagation.
func convertErr(desc string, err error) Error {
	if dbErr, ok := err.(Error); ok {
		return dbErr
	}
	return Error{ErrorCode: ErrDriverSpecific, Description: desc, Err: err}
}
