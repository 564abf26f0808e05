// Package repository holds the MySQL-backed audit storage.  Sentinel
// errors let handlers distinguish failure modes.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an activity id was already stored, which
// happens when the broker redelivers a message.
var ErrDuplicate = errors.New("duplicate")
