package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campusportal/internal/domain"
)

// Event describes one successful status transition.
type Event struct {
	ItemID   int64
	Kind     domain.ItemKind
	Previous domain.ItemStatus
	New      domain.ItemStatus
	OwnerID  int64
	Reason   string
}

// Sink consumes transition events. Delivery is best-effort: a transition is
// durable before the sink runs, and sink failures are logged, not propagated.
type Sink interface {
	ItemTransitioned(ctx context.Context, ev Event) error
}

// ItemStore is the slice of the item repository the engine needs.
type ItemStore interface {
	GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error)
	UpdateStatusCAS(ctx context.Context, id int64, expected, next domain.ItemStatus, reason string) (bool, error)
}

// Engine applies the moderation state machine shared by all item kinds:
//
//	pending  -> approved | rejected   (moderator)
//	approved -> sold | inactive       (marketplace only, owner)
//
// rejected, sold and inactive are terminal; approved is terminal for
// lost-found items and notes.
type Engine struct {
	items ItemStore
	sink  Sink
	log   *zap.Logger
}

func NewEngine(items ItemStore, sink Sink, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{items: items, sink: sink, log: log}
}

// Legal reports whether the state machine defines a transition from -> to for
// the given kind.
func Legal(kind domain.ItemKind, from, to domain.ItemStatus) bool {
	switch {
	case from == domain.StatusPending &&
		(to == domain.StatusApproved || to == domain.StatusRejected):
		return true
	case kind == domain.KindMarketplace && from == domain.StatusApproved &&
		(to == domain.StatusSold || to == domain.StatusInactive):
		return true
	}
	return false
}

func authorize(actor Actor, item *domain.ModeratedItem, to domain.ItemStatus) error {
	switch to {
	case domain.StatusApproved, domain.StatusRejected:
		if !CanModerate(actor) {
			return ErrForbidden
		}
	case domain.StatusSold, domain.StatusInactive:
		if !CanMutateItem(actor, item) {
			return ErrForbidden
		}
	default:
		return ErrIllegalTransition
	}
	return nil
}

// Transition moves the item to the requested status on behalf of actor.
// Re-applying the item's current status is a no-op returning the current
// state, so retries are safe. The status write is a compare-and-set against
// the status read here; losing that race yields ErrConflict.
func (e *Engine) Transition(ctx context.Context, id int64, to domain.ItemStatus, actor Actor, reason string) (*domain.ModeratedItem, error) {
	item, err := e.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := authorize(actor, item, to); err != nil {
		return nil, err
	}

	if item.Status == to {
		return item, nil
	}

	if item.Terminal() || !Legal(item.Kind, item.Status, to) {
		return nil, ErrIllegalTransition
	}

	ok, err := e.items.UpdateStatusCAS(ctx, item.ID, item.Status, to, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}

	ev := Event{
		ItemID:   item.ID,
		Kind:     item.Kind,
		Previous: item.Status,
		New:      to,
		OwnerID:  item.OwnerID,
		Reason:   reason,
	}
	item.Status = to
	if reason != "" {
		item.RejectedReason = reason
	}

	if e.sink != nil {
		if err := e.sink.ItemTransitioned(ctx, ev); err != nil {
			e.log.Warn("transition notification failed",
				zap.Int64("item_id", ev.ItemID),
				zap.String("kind", string(ev.Kind)),
				zap.String("status", string(ev.New)),
				zap.Error(err),
			)
		}
	}

	return item, nil
}
