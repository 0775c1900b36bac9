package app

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/property"
	"homehub/internal/pkg/logger"
)

// SeedResult lists the demo accounts created by Seed.
type SeedResult struct {
	Users      int
	Properties int
	Skipped    bool
}

type seedUser struct {
	name     string
	email    string
	role     auth.Role
	status   auth.VerificationStatus
	password string
}

var seedUsers = []seedUser{
	{"Platform Admin", "admin@homehub.local", auth.RoleAdmin, auth.VerificationActive, "admin123"},
	{"Wanjiru Kamau", "landlord@homehub.local", auth.RoleLandlord, auth.VerificationActive, "landlord123"},
	{"Otieno Odhiambo", "newlandlord@homehub.local", auth.RoleLandlord, auth.VerificationPending, "landlord123"},
	{"Amina Hassan", "tenant@homehub.local", auth.RoleTenant, auth.VerificationActive, "tenant123"},
	{"Brian Mwangi", "tenant2@homehub.local", auth.RoleTenant, auth.VerificationActive, "tenant123"},
}

// Seed fills an empty database with demo accounts and listings. A database
// that already has users is left alone.
func Seed(ctx context.Context, db *gorm.DB) (*SeedResult, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&auth.User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.Log.Info("database already has users, skipping seed")
		return &SeedResult{Skipped: true}, nil
	}

	out := &SeedResult{}
	err := database.NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		users := auth.NewRepository(db)
		properties := property.NewRepository(db)
		now := time.Now().UTC()

		var landlordID int64
		for _, su := range seedUsers {
			hash, err := auth.HashPassword(su.password)
			if err != nil {
				return err
			}
			u := &auth.User{
				FullName:           su.name,
				Email:              su.email,
				PasswordHash:       hash,
				Role:               su.role,
				Phone:              "0700000000",
				VerificationStatus: su.status,
				IsActive:           true,
			}
			if su.status == auth.VerificationActive {
				u.VerifiedAt = &now
			}
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("create %s: %w", su.email, err)
			}
			if su.email == "landlord@homehub.local" {
				landlordID = u.ID
			}
			out.Users++
		}

		listings := []property.Property{
			{Title: "Kilimani 2BR Apartment", City: "Nairobi", Address: "Argwings Kodhek Rd", UnitNumber: "A4", Price: 65000, Bedrooms: 2, Bathrooms: 2, PropertyType: "apartment", Status: property.StatusApproved},
			{Title: "Nyali Beach Studio", City: "Mombasa", Address: "Links Rd", UnitNumber: "S1", Price: 30000, Bedrooms: 1, Bathrooms: 1, PropertyType: "studio", Status: property.StatusApproved},
			{Title: "Karen Family House", City: "Nairobi", Address: "Karen Rd", Price: 180000, Bedrooms: 4, Bathrooms: 3, PropertyType: "house", Status: property.StatusPending},
		}
		for i := range listings {
			p := &listings[i]
			p.OwnerID = landlordID
			p.Description = "Seeded listing"
			p.Amenities = []string{"water", "parking"}
			if err := properties.Create(ctx, p); err != nil {
				return fmt.Errorf("create property %q: %w", p.Title, err)
			}
			out.Properties++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("users", out.Users).WithField("properties", out.Properties).Info("seed completed")
	return out, nil
}
