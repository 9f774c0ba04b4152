package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campusportal/internal/domain"
	"campusportal/internal/workflow"
)

const DefaultListLimit = 50

// Repository — only the methods the notification service uses.
type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Notify appends an unread notice for the user.
func (s *Service) Notify(ctx context.Context, userID int64, message, notifType string, relatedItemID *int64) (*domain.Notification, error) {
	n := &domain.Notification{
		UserID:        userID,
		Message:       message,
		Type:          notifType,
		RelatedItemID: relatedItemID,
		Read:          false,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// ListFor returns the user's notifications, newest first, capped at limit
// (default 50).
func (s *Service) ListFor(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *Service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips the read flag. Already-read is a no-op; an id that does not
// exist for this user is ErrNotificationNotFound.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	n, err := s.repo.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.Read {
		return nil
	}
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// ItemTransitioned makes the service a workflow.Sink: moderation outcomes
// become notices for the item's owner.
func (s *Service) ItemTransitioned(ctx context.Context, ev workflow.Event) error {
	var message, notifType string

	switch ev.New {
	case domain.StatusApproved:
		message = fmt.Sprintf("Your %s submission was approved", kindLabel(ev.Kind))
		notifType = domain.NotifTypeItemApproved
	case domain.StatusRejected:
		message = fmt.Sprintf("Your %s submission was rejected", kindLabel(ev.Kind))
		if ev.Reason != "" {
			message += ": " + ev.Reason
		}
		notifType = domain.NotifTypeItemRejected
	case domain.StatusSold:
		message = "Your marketplace item was marked as sold"
		notifType = domain.NotifTypeItemSold
	case domain.StatusInactive:
		message = "Your marketplace item was marked as inactive"
		notifType = domain.NotifTypeItemInactive
	default:
		return nil
	}

	itemID := ev.ItemID
	_, err := s.Notify(ctx, ev.OwnerID, message, notifType, &itemID)
	return err
}

func kindLabel(kind domain.ItemKind) string {
	switch kind {
	case domain.KindLostFound:
		return "lost & found"
	case domain.KindMarketplace:
		return "marketplace"
	case domain.KindNote:
		return "notes"
	}
	return string(kind)
}
