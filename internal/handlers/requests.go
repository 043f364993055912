package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the gate form. Credentials are collected for show only and
// never checked; the email is kept to greet the user.
type LoginRequest struct {
	Email    string `form:"email" validate:"omitempty,email,max=254"`
	FullName string `form:"full_name" validate:"max=200"`
	Password string `form:"password"`
	Mode     string `form:"mode" validate:"omitempty,oneof=login signup"`
}
