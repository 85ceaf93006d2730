// Package migrations embeds the SQLite schema for championships.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
