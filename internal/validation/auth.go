package validation

import (
	"strings"

	"github.com/avelthuis/portfolio-dashboard-gateway/internal/api/request"
)

// ValidateLogin checks that both credential fields are present.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateRegister checks the signup payload.
func ValidateRegister(req request.RegisterRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		errors["username"] = "username is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		errors["email"] = "email is required"
	} else if !strings.Contains(req.Email, "@") {
		errors["email"] = "email is invalid"
	}
	if len(req.Password) < 8 {
		errors["password"] = "password must be at least 8 characters"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
