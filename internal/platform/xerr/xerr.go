// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package xerr defines the closed, exhaustive error taxonomy used internally
by the crawler, store, and fetcher.

Unlike [apperr], which carries an open set of HTTP-flavored codes for the
presentation layer, xerr enumerates exactly four kinds. Call sites cannot
invent a fifth: the set is small on purpose so that crawl-loop and ingest
logic can switch on [Kind] exhaustively instead of pattern-matching on
arbitrary strings.

# Kinds

  - Unknown: programmer errors, assertion failures.
  - Database: any SQL-level failure.
  - Connection: pool exhaustion / connect timeout.
  - Network: HTTP transport or response decoding failure.
*/
package xerr

import (
	"errors"
	"fmt"
)

// Kind is one of the four exhaustive error categories.
type Kind int

const (
	Unknown Kind = iota
	Database
	Connection
	Network
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case Database:
		return "database"
	case Connection:
		return "connection"
	case Network:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carrying a [Kind], the operation that
// failed, and the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap allows [errors.Is]/[errors.As] to traverse the cause chain.
func (e *Error) Unwrap() error { return e.Err }

// New wraps err as the given [Kind] for operation op. Returns nil if err
// is nil so call sites can write `return xerr.New(xerr.Database, "op", err)`
// unconditionally.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err (or any error in its chain) is an [*Error] of the
// given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the [Kind] of err, or [Unknown] if err is not an [*Error].
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
