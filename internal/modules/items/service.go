package items

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"campusportal/internal/domain"
	"campusportal/internal/workflow"
)

// Service is the moderated item store: every user-submitted listing, sale
// offer and note goes through it, regardless of kind.
type Service struct {
	items  ItemRepository
	engine TransitionEngine
}

func NewService(items ItemRepository, engine TransitionEngine) *Service {
	return &Service{items: items, engine: engine}
}

// Submit validates the payload for the kind and persists a new item in
// pending state under the submitting actor.
func (s *Service) Submit(ctx context.Context, kind domain.ItemKind, ownerID int64, ownerName string, req SubmitRequest) (*domain.ModeratedItem, error) {
	if verr := validateSubmit(kind, req); verr != nil {
		return nil, verr
	}

	now := time.Now()
	item := &domain.ModeratedItem{
		Kind:          kind,
		OwnerID:       ownerID,
		OwnerName:     ownerName,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		Contact:       strings.TrimSpace(req.Contact),
		Subject:       strings.TrimSpace(req.Subject),
		AttachmentURL: req.AttachmentURL,
		Status:        domain.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ModeratedItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

// ListApproved returns the publicly visible items of a kind, newest first.
func (s *Service) ListApproved(ctx context.Context, kind domain.ItemKind, includePostSale bool) ([]domain.ModeratedItem, error) {
	return s.items.ListApproved(ctx, kind, includePostSale)
}

// ListMine returns the actor's own items across all statuses.
func (s *Service) ListMine(ctx context.Context, kind domain.ItemKind, ownerID int64) ([]domain.ModeratedItem, error) {
	return s.items.ListByOwner(ctx, kind, ownerID)
}

// ListPending returns items awaiting moderation. Moderators only.
func (s *Service) ListPending(ctx context.Context, kind domain.ItemKind, actor workflow.Actor) ([]domain.ModeratedItem, error) {
	if !workflow.CanModerate(actor) {
		return nil, workflow.ErrForbidden
	}
	return s.items.ListByStatus(ctx, kind, domain.StatusPending)
}

// ListAll returns every item of a kind across all statuses. Moderators only.
func (s *Service) ListAll(ctx context.Context, kind domain.ItemKind, actor workflow.Actor) ([]domain.ModeratedItem, error) {
	if !workflow.CanModerate(actor) {
		return nil, workflow.ErrForbidden
	}
	return s.items.ListAll(ctx, kind)
}

// SetStatus delegates the transition to the workflow engine, which owns the
// legality and authorization rules.
func (s *Service) SetStatus(ctx context.Context, id int64, to domain.ItemStatus, actor workflow.Actor, reason string) (*domain.ModeratedItem, error) {
	return s.engine.Transition(ctx, id, to, actor, reason)
}

// Delete removes an item. Only the owner or an admin may do so.
func (s *Service) Delete(ctx context.Context, id int64, actor workflow.Actor) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !workflow.CanMutateItem(actor, item) {
		return workflow.ErrForbidden
	}
	return s.items.Delete(ctx, id)
}
