// Package migrations embeds the SQL migration files for the sqlite store.
package migrations

import "embed"

// Files holds the migration SQL files, applied in lexical order.
//
//go:embed *.sql
var Files embed.FS
