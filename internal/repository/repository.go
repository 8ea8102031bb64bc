package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coaching-app/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanTemplateRepository is the persistence gateway for muscle plan
// templates and presets. The planner service wraps every call in a bounded
// timeout; a deadline error here is what the editor surfaces as a failed
// save.
type PlanTemplateRepository interface {
	Create(ctx context.Context, tpl *domain.PlanTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanTemplate, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, presets bool) ([]domain.PlanTemplate, error)
	Update(ctx context.Context, tpl *domain.PlanTemplate) error
	Delete(ctx context.Context, id, trainerID primitive.ObjectID) error
}
