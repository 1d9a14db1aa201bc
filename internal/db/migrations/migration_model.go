package migrations

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration is one applied schema change of a database file
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null"`
	AppliedAt time.Time `gorm:"not null"`
}

// MigrationManager applies named, run-once schema changes
type MigrationManager struct {
	db *gorm.DB
}

func NewMigrationManager(db *gorm.DB) *MigrationManager {
	return &MigrationManager{db: db}
}

// EnsureMigrationTable creates the bookkeeping table on first use
func (m *MigrationManager) EnsureMigrationTable() error {
	if m.db.Migrator().HasTable(&Migration{}) {
		return nil
	}
	log.Debugf("Creating migrations table")
	return m.db.AutoMigrate(&Migration{})
}

// Applied lists the names of the migrations already run, oldest first
func (m *MigrationManager) Applied() ([]string, error) {
	var names []string
	if err := m.db.Model(&Migration{}).Order("id asc").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	return names, nil
}

// RunMigration runs migrationFn and records name in the same transaction,
// a migration that is already recorded is skipped
func (m *MigrationManager) RunMigration(name string, migrationFn func(*gorm.DB) error) error {
	applied := false
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Migration{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			return nil
		}

		if err := migrationFn(tx); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		if err := tx.Create(&Migration{Name: name, AppliedAt: time.Now()}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", name, err)
		}
		applied = true
		return nil
	})
	if err != nil {
		return err
	}

	if applied {
		log.Infof("Applied migration %s", name)
	} else {
		log.Debugf("Migration %s has already been applied, skipping", name)
	}
	return nil
}
