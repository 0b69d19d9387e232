package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstname" db:"firstname"`
	LastName     string    `json:"lastname" db:"lastname"`
	Phone        string    `json:"phone" db:"phone"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=255" example:"jan.kowalski@example.com"`
	FirstName string `json:"firstname" validate:"required,min=3,max=64" example:"Jan"`
	LastName  string `json:"lastname" validate:"required,min=3,max=64" example:"Kowalski"`
	Phone     string `json:"phone" validate:"required,phone" example:"+48123456789"`
	Password  string `json:"password" validate:"required,min=8,max=72" example:"s3cretpass"`
}

func (r RegisterRequest) Validate() error {
	return validateStruct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"jan.kowalski@example.com"`
	Password string `json:"password" validate:"required,min=8" example:"s3cretpass"`
}

func (r LoginRequest) Validate() error {
	return validateStruct(r)
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
}

type ProfileResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Phone     string `json:"phone"`
}

// MessageResponse is the body of operations that only report success.
type MessageResponse struct {
	Message string `json:"message"`
}

type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}
