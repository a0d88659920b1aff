// Package migrations embeds the catalog schema migration files.
package migrations

import "embed"

// Files holds the SQL migrations, applied in filename order.
//
//go:embed *.sql
var Files embed.FS
