package admin

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"campusportal/internal/domain"
	"campusportal/internal/workflow"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAlreadyAdmin   = errors.New("user is already an admin")
	ErrReasonRequired = errors.New("rejection reason is required")
)

type Service struct {
	users  UserRepository
	items  ItemReader
	engine TransitionEngine
}

func NewService(users UserRepository, items ItemReader, engine TransitionEngine) *Service {
	return &Service{users: users, items: items, engine: engine}
}

// Approve moves a pending item of the given kind to approved. The kind from
// the route must match the item, so a note cannot be approved through the
// marketplace URL.
func (s *Service) Approve(ctx context.Context, kind domain.ItemKind, itemID int64, actor workflow.Actor) (*domain.ModeratedItem, error) {
	if err := s.checkKind(ctx, kind, itemID); err != nil {
		return nil, err
	}
	return s.engine.Transition(ctx, itemID, domain.StatusApproved, actor, "")
}

// Reject moves a pending item to rejected, recording the reason surfaced to
// the owner.
func (s *Service) Reject(ctx context.Context, kind domain.ItemKind, itemID int64, actor workflow.Actor, reason string) (*domain.ModeratedItem, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	if err := s.checkKind(ctx, kind, itemID); err != nil {
		return nil, err
	}
	return s.engine.Transition(ctx, itemID, domain.StatusRejected, actor, strings.TrimSpace(reason))
}

// AddAdmin promotes an existing user to admin by email.
func (s *Service) AddAdmin(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, ErrAlreadyAdmin
	}

	user.Role = domain.RoleAdmin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) checkKind(ctx context.Context, kind domain.ItemKind, itemID int64) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workflow.ErrNotFound
		}
		return err
	}
	if item.Kind != kind {
		return workflow.ErrNotFound
	}
	return nil
}
