package app

import (
	"fmt"

	"gorm.io/gorm"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/maintenance"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/payment"
	"homehub/internal/domain/property"
)

type migration struct {
	name string
	run  func(db *gorm.DB) error
}

// migrations are ordered so referenced tables exist first.
var migrations = []migration{
	{"users", auth.Migrate},
	{"notifications", notification.Migrate},
	{"properties", property.Migrate},
	{"leases", lease.Migrate},
	{"maintenance", maintenance.Migrate},
	{"billing", payment.Migrate},
}

// Migrate creates or updates every table and index the service uses.
func Migrate(db *gorm.DB) error {
	for _, m := range migrations {
		if err := m.run(db); err != nil {
			return fmt.Errorf("migrate %s: %w", m.name, err)
		}
	}
	return nil
}
