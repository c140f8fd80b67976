package config

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemaCapabilities records optional columns detected once at startup.
// Databases migrated by an older release and run with AUTO_MIGRATE=false
// predate the priority columns on catalog tables.
type SchemaCapabilities struct {
	HasPriority bool
}

var Schema SchemaCapabilities

// ResolveSchema probes optional columns and stores the result in Schema.
func ResolveSchema(db *gorm.DB) SchemaCapabilities {
	m := db.Migrator()
	caps := SchemaCapabilities{
		HasPriority: m.HasColumn("services", "priority") &&
			m.HasColumn("products", "priority") &&
			m.HasColumn("spaces", "priority") &&
			m.HasColumn("staff", "priority"),
	}
	Schema = caps
	GetLogger().Info("schema capabilities resolved", zap.Bool("priority", caps.HasPriority))
	return caps
}
