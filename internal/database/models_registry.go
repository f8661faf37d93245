package database

import "circles/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.React{},
		&models.RelationshipAggregate{},
		&models.RelationshipMember{},
		&models.RequestAggregate{},
		&models.RequestPending{},
		&models.HiddenPost{},
		&models.SavedPost{},
		&models.ArchiveAggregate{},
		&models.ArchiveEntry{},
	}
}
