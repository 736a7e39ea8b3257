package dto

import "github.com/google/uuid"

type SignupRequest struct {
	Email      string `json:"email" form:"email" binding:"required,email"`
	Username   string `json:"username" form:"username" binding:"required,min=2,max=50"`
	Password   string `json:"password" form:"password" binding:"required,min=8,max=100"`
	Newsletter bool   `json:"newsletter" form:"newsletter"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// PublicAccount is the part of an account anyone may see.
type PublicAccount struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	ID        uuid.UUID     `json:"_id"`
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expires_in"` // seconds
	Account   PublicAccount `json:"account"`
}
