// Package database embeds the SQL migrations so the binaries do not depend on
// the working directory.
package database

import "embed"

// Migrations holds the golang-migrate files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsPath is the directory inside Migrations holding the files.
const MigrationsPath = "migrations"
