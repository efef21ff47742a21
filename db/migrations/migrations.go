// Package migrations embeds the goose SQL files so the binary can migrate
// without the source tree.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
