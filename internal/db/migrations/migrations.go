// Package migrations embeds the goose SQL migrations for the map store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
