package migrations

import "embed"

// FS embeds all SQL migration files for the storage layer.
//
//go:embed *.sql
var FS embed.FS
