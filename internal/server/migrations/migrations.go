// Package migrations embeds the goose schema migrations, one set per
// supported storage backend.
package migrations

import "embed"

//go:embed sqlite/*.sql
var Sqlite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
