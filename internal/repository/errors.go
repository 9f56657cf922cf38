// Package repository implements MySQL persistence for users, activities,
// achievements, tips and refresh tokens. Sentinel errors defined here let
// handlers distinguish failure scenarios without inspecting driver
// internals.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 (or 400/401 where the original flow
// does).
var ErrNotFound = errors.New("not found")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062), raised by unique indexes.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
