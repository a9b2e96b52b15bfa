package database

import (
	"errors"
	"log"

	"rently/config"
	"rently/internal/domain"
	"rently/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Booking{},
		&models.Payment{},
		&models.Payout{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
		&models.PointsBalance{},
		&models.PointsTransaction{},
		&models.IdentityVerification{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the initial admin account when none exists. Password must
// be rotated after first login.
func SeedAdmin(db *gorm.DB) {
	var u models.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&u).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Seed] admin lookup: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-change-me"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[Seed] hash: %v", err)
		return
	}
	admin := models.User{
		Name:         "Admin",
		Email:        "admin@rently.app",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("[Seed] create admin: %v", err)
		return
	}
	log.Printf("[Seed] created admin account %s", admin.Email)
}
