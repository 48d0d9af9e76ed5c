package repository

import (
	"context"
	"errors"

	"healthmed-scheduler/internal/domain/entity"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository resolves doctors and patients. FindByID returns
// ErrUserNotFound when the id is unknown.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
