package sql

import "embed"

// Migrations holds the tag store DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
