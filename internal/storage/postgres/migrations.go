package postgres

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema migrations, registered from the
// timestamp-prefixed files in this package.
var Migrations = migrate.NewMigrations()
