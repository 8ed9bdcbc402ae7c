// Package migrations embeds SQL migration files into the binary.
//
// Importing this package registers the files with the database package,
// so the assistant can migrate without the SQL files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.RegisterMigrations(files, ".")
}
