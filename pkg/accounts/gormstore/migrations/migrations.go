// Package migrations embeds the PostgreSQL schema for the account directory.
package migrations

import "embed"

// FS holds the golang-migrate migration files.
//
//go:embed *.sql
var FS embed.FS
