package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
)

const (
	userNameMin = 2
	userNameMax = 50
	passwordMin = 6
)

// RegisterInput is a registration payload after validation. Email is
// lowercased so it can serve as the login key.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput is a login payload after validation.
type LoginInput struct {
	Email    string
	Password string
}

// ValidateRegister checks the registration payload: name [2,50], valid
// email, password >= 6 chars, optional role restricted to USER/ADMIN
// (defaulting happens in the use case, not here).
func ValidateRegister(in dto.RegisterRequest) (RegisterInput, *ValidationError) {
	verr := &ValidationError{}
	out := RegisterInput{}

	// Bounds count characters, not bytes.
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verr.add("name", "Name is required")
	case utf8.RuneCountInString(name) < userNameMin:
		verr.add("name", "Name must be at least 2 characters long")
	case utf8.RuneCountInString(name) > userNameMax:
		verr.add("name", "Name cannot exceed 50 characters")
	default:
		out.Name = name
	}

	if email, msg := checkEmail(in.Email); msg != "" {
		verr.add("email", msg)
	} else {
		out.Email = email
	}

	switch {
	case in.Password == "":
		verr.add("password", "Password is required")
	case utf8.RuneCountInString(in.Password) < passwordMin:
		verr.add("password", "Password must be at least 6 characters long")
	default:
		out.Password = in.Password
	}

	role := strings.TrimSpace(in.Role)
	if role != "" && !entity.ValidRole(role) {
		verr.add("role", "Role must be either USER or ADMIN")
	} else {
		out.Role = role
	}

	if err := verr.orNil(); err != nil {
		return RegisterInput{}, err
	}
	return out, nil
}

// ValidateLogin checks the login payload.
func ValidateLogin(in dto.LoginRequest) (LoginInput, *ValidationError) {
	verr := &ValidationError{}
	out := LoginInput{}

	if email, msg := checkEmail(in.Email); msg != "" {
		verr.add("email", msg)
	} else {
		out.Email = email
	}

	if in.Password == "" {
		verr.add("password", "Password is required")
	} else {
		out.Password = in.Password
	}

	if err := verr.orNil(); err != nil {
		return LoginInput{}, err
	}
	return out, nil
}

// checkEmail validates and case-normalizes an email address. The parsed
// address must round-trip to the input so display-name forms like
// "Bob <b@x.com>" do not slip through.
func checkEmail(raw string) (string, string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", "Email is required"
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "Please provide a valid email"
	}
	return email, ""
}
