// Package database opens the assistant's SQLite file and versions its schema.
//
// The pool is a single connection with WAL journaling and a busy timeout.
// The file is created with mode 0600 in a directory created with 0750.
//
// Migrations are SQL files named YYYYMMDD_HHMMSS_name.up.sql with an
// optional .down.sql twin. The migrations package registers its embedded
// files through RegisterMigrations; Migrate applies pending ones at start-up
// and "graylogic-assistant migrate status|up|down" drives them by hand.
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Tables:
//   - schema_migrations: applied versions
//   - instance_properties: device lists per owner (configstore)
//   - variables: live values referenced by device records (variable)
package database
