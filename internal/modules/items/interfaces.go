package items

import (
	"context"

	"campusportal/internal/domain"
	"campusportal/internal/workflow"
)

// ItemRepository — only the methods the items service uses.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.ModeratedItem) error
	GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error)
	ListApproved(ctx context.Context, kind domain.ItemKind, includePostSale bool) ([]domain.ModeratedItem, error)
	ListByOwner(ctx context.Context, kind domain.ItemKind, ownerID int64) ([]domain.ModeratedItem, error)
	ListByStatus(ctx context.Context, kind domain.ItemKind, status domain.ItemStatus) ([]domain.ModeratedItem, error)
	ListAll(ctx context.Context, kind domain.ItemKind) ([]domain.ModeratedItem, error)
	Delete(ctx context.Context, id int64) error
}

// TransitionEngine is implemented by the workflow engine.
type TransitionEngine interface {
	Transition(ctx context.Context, id int64, to domain.ItemStatus, actor workflow.Actor, reason string) (*domain.ModeratedItem, error)
}
