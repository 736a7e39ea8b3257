package database

import (
	"errors"

	"github.com/Payphone-Digital/marketplace/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoAccount defines the account created for local development
type DemoAccount struct {
	Email    string
	Username string
	Password string
}

func GetDemoAccount() DemoAccount {
	return DemoAccount{
		Email:    "demo@marketplace.local",
		Username: "demo",
		Password: "Demo@1234", // development only
	}
}

// Seed creates initial data for the database
func Seed(db *gorm.DB) error {
	return SeedAccounts(db)
}

// SeedAccounts creates the demo account if not exists
func SeedAccounts(db *gorm.DB) error {
	demo := GetDemoAccount()

	var existing model.Account
	result := db.Where("email = ?", demo.Email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demo.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := model.Account{
		Email:        demo.Email,
		Username:     demo.Username,
		Password:     string(hashedPassword),
		TokenVersion: 1,
	}

	return db.Create(&account).Error
}
