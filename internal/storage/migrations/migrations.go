// Package migrations embeds the SQL schema applied by storage.Migrate.
package migrations

import "embed"

// FS holds the goose migration files.
//
//go:embed *.sql
var FS embed.FS
