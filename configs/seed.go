package configs

import (
	"backend/entity"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the bootstrap admin when ADMIN_EMAIL/ADMIN_PASSWORD are
// set and no admin with that email exists yet.
func SeedAdmin(cfg *Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Warn().Msg("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.Admin{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.Admin{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
	}
	return db.Create(&admin).Error
}
