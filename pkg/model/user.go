package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=120"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=admin staff"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=admin staff"`
}

// ReauthRequest re-proves the caller's password right before a destructive
// operation (deactivate, delete).
type ReauthRequest struct {
	Password string `json:"password" validate:"required"`
}
