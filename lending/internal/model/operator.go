package model

import "time"

// Operator is an account allowed to sign in and register returns.
type Operator struct {
	ID           string     `json:"_id" db:"id" bson:"_id"`
	Username     string     `json:"username" db:"username" bson:"username"`
	Email        string     `json:"email" db:"email" bson:"email"`
	PasswordHash string     `json:"-" db:"password_hash" bson:"password"`
	Role         Role       `json:"rol" db:"role" bson:"rol"`
	Name         string     `json:"name" db:"name" bson:"name"`
	Phone        string     `json:"phone" db:"phone" bson:"phone"`
	Address      string     `json:"address" db:"address" bson:"address"`
	City         string     `json:"city" db:"city" bson:"city"`
	Country      string     `json:"country" db:"country" bson:"country"`
	BirthDate    *time.Time `json:"birthDate,omitempty" db:"birth_date" bson:"birthDate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"rol" validate:"omitempty,oneof=admin user"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateProfileRequest is a partial edit; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=128"`
	Phone     *string `json:"phone" validate:"omitempty,max=32"`
	Address   *string `json:"address" validate:"omitempty,max=256"`
	City      *string `json:"city" validate:"omitempty,max=128"`
	Country   *string `json:"country" validate:"omitempty,max=128"`
	BirthDate *Date   `json:"birthDate"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

type ProfileResponse struct {
	Message  string   `json:"message"`
	Operator Operator `json:"user"`
}
