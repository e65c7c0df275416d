package repository

import "github.com/candylab/sweetshop-api/internal/domain/entity"

// UserRepository is the credential store port.
type UserRepository interface {
	// Create persists a new user. Returns domain.ErrEmailAlreadyExists when
	// the (case-normalized) email is taken.
	Create(user *entity.User) error
	// GetByEmail looks a user up by lowercased email. (nil, nil) when absent.
	GetByEmail(email string) (*entity.User, error)
	// GetByID looks a user up by id. (nil, nil) when absent.
	GetByID(id string) (*entity.User, error)
}
