// Package cmd implements the command-line interface for the localdb
// embedded document store. It provides a hierarchical command structure for
// inspecting and manipulating local databases.
//
// The package is organized into several subpackages:
//
//   - db: Commands for document operations (put, get, update, delete, etc.)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See localdb -help for a list of all commands.
package cmd
