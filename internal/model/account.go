package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Account struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;type:varchar(255);unique;not null" json:"email"`
	Username     string    `gorm:"column:username;type:varchar(50);not null" json:"username"`
	Avatar       string    `gorm:"column:avatar;type:varchar(2048)" json:"avatar,omitempty"`
	Newsletter   bool      `gorm:"column:newsletter;default:false" json:"newsletter"`
	Password     string    `gorm:"column:password;not null" json:"-"`
	TokenVersion int       `gorm:"column:token_version;default:1;not null" json:"-"`
	LastLogin    time.Time `gorm:"column:last_login" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
