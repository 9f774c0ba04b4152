package admin

import (
	"context"

	"campusportal/internal/domain"
	"campusportal/internal/workflow"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}

type ItemReader interface {
	GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error)
}

type TransitionEngine interface {
	Transition(ctx context.Context, id int64, to domain.ItemStatus, actor workflow.Actor, reason string) (*domain.ModeratedItem, error)
}
