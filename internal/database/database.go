package database

import (
	"clubdesk-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// behind connection poolers (PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.PendingUser{},
		&models.Verification{},
		&models.Event{},
		&models.EventParticipant{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamInvitation{},
		&models.TeamApplication{},
		&models.Announcement{},
		&models.EventAuditLog{},
		&models.Notification{},
	)
}
