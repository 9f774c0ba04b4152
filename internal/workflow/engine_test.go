package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campusportal/internal/domain"
)

// memStore is a mutex-guarded in-memory ItemStore, so the CAS semantics can
// be exercised from multiple goroutines.
type memStore struct {
	mu    sync.Mutex
	items map[int64]*domain.ModeratedItem
}

func newMemStore(items ...*domain.ModeratedItem) *memStore {
	s := &memStore{items: make(map[int64]*domain.ModeratedItem)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *memStore) UpdateStatusCAS(ctx context.Context, id int64, expected, next domain.ItemStatus, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.Status != expected {
		return false, nil
	}
	it.Status = next
	if reason != "" {
		it.RejectedReason = reason
	}
	return true, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recordingSink) ItemTransitioned(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func pendingItem(id, ownerID int64, kind domain.ItemKind) *domain.ModeratedItem {
	return &domain.ModeratedItem{
		ID:      id,
		Kind:    kind,
		OwnerID: ownerID,
		Title:   "test item",
		Status:  domain.StatusPending,
	}
}

var (
	admin = Actor{ID: 99, Role: domain.RoleAdmin}
	owner = Actor{ID: 1, Role: domain.RoleUser}
	other = Actor{ID: 2, Role: domain.RoleUser}
)

func TestEngine_ApprovePending(t *testing.T) {
	store := newMemStore(pendingItem(1, owner.ID, domain.KindLostFound))
	sink := &recordingSink{}
	eng := NewEngine(store, sink, nil)

	item, err := eng.Transition(context.Background(), 1, domain.StatusApproved, admin, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, item.Status)

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.StatusPending, sink.events[0].Previous)
	assert.Equal(t, domain.StatusApproved, sink.events[0].New)
	assert.Equal(t, owner.ID, sink.events[0].OwnerID)
}

func TestEngine_RejectCarriesReason(t *testing.T) {
	store := newMemStore(pendingItem(1, owner.ID, domain.KindNote))
	sink := &recordingSink{}
	eng := NewEngine(store, sink, nil)

	item, err := eng.Transition(context.Background(), 1, domain.StatusRejected, admin, "duplicate upload")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, item.Status)
	assert.Equal(t, "duplicate upload", item.RejectedReason)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "duplicate upload", sink.events[0].Reason)
}

func TestEngine_NonAdminCannotModerate(t *testing.T) {
	store := newMemStore(pendingItem(1, owner.ID, domain.KindMarketplace))
	sink := &recordingSink{}
	eng := NewEngine(store, sink, nil)

	// not even the owner may approve their own submission
	_, err := eng.Transition(context.Background(), 1, domain.StatusApproved, owner, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// status must be untouched and no event emitted
	got, _ := store.GetByID(context.Background(), 1)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Empty(t, sink.events)
}

func TestEngine_OnlyOwnerMarksSold(t *testing.T) {
	item := pendingItem(1, owner.ID, domain.KindMarketplace)
	item.Status = domain.StatusApproved
	store := newMemStore(item)
	eng := NewEngine(store, &recordingSink{}, nil)

	_, err := eng.Transition(context.Background(), 1, domain.StatusSold, other, "")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := eng.Transition(context.Background(), 1, domain.StatusSold, owner, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, got.Status)
}

func TestEngine_IdempotentReapply(t *testing.T) {
	item := pendingItem(1, owner.ID, domain.KindLostFound)
	item.Status = domain.StatusApproved
	store := newMemStore(item)
	sink := &recordingSink{}
	eng := NewEngine(store, sink, nil)

	got, err := eng.Transition(context.Background(), 1, domain.StatusApproved, admin, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Empty(t, sink.events, "no-op must not emit an event")
}

func TestEngine_IllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		kind domain.ItemKind
		from domain.ItemStatus
		to   domain.ItemStatus
	}{
		{"rejected to approved", domain.KindLostFound, domain.StatusRejected, domain.StatusApproved},
		{"pending straight to sold", domain.KindMarketplace, domain.StatusPending, domain.StatusSold},
		{"sold back to approved", domain.KindMarketplace, domain.StatusSold, domain.StatusApproved},
		{"note to sold", domain.KindNote, domain.StatusApproved, domain.StatusSold},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := pendingItem(1, owner.ID, tc.kind)
			item.Status = tc.from
			eng := NewEngine(newMemStore(item), &recordingSink{}, nil)

			_, err := eng.Transition(context.Background(), 1, tc.to, admin, "")
			assert.ErrorIs(t, err, ErrIllegalTransition)
		})
	}
}

func TestEngine_NotFound(t *testing.T) {
	eng := NewEngine(newMemStore(), &recordingSink{}, nil)

	_, err := eng.Transition(context.Background(), 42, domain.StatusApproved, admin, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_SinkFailureDoesNotFailTransition(t *testing.T) {
	store := newMemStore(pendingItem(1, owner.ID, domain.KindNote))
	sink := &recordingSink{err: errors.New("smtp down")}
	eng := NewEngine(store, sink, nil)

	item, err := eng.Transition(context.Background(), 1, domain.StatusApproved, admin, "")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, item.Status)
}

// barrierStore delays every read until both moderators have read, forcing
// both transitions to start from the same pending snapshot.
type barrierStore struct {
	*memStore
	reads sync.WaitGroup
}

func (s *barrierStore) GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error) {
	item, err := s.memStore.GetByID(ctx, id)
	s.reads.Done()
	s.reads.Wait()
	return item, err
}

// Two moderators race to resolve the same pending item: exactly one
// transition wins, the loser observes ErrConflict, and only the winner's
// event is emitted.
func TestEngine_ConcurrentModeration(t *testing.T) {
	store := &barrierStore{memStore: newMemStore(pendingItem(1, owner.ID, domain.KindMarketplace))}
	store.reads.Add(2)
	sink := &recordingSink{}
	eng := NewEngine(store, sink, nil)

	errs := make(chan error, 2)
	go func() {
		_, err := eng.Transition(context.Background(), 1, domain.StatusApproved, admin, "")
		errs <- err
	}()
	go func() {
		_, err := eng.Transition(context.Background(), 1, domain.StatusRejected, admin, "spam")
		errs <- err
	}()

	var conflicts, wins int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			wins++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one transition must win")
	assert.Equal(t, 1, conflicts, "the loser must see a conflict")
	assert.Len(t, sink.events, 1)

	got, _ := store.memStore.GetByID(context.Background(), 1)
	assert.True(t, got.Status == domain.StatusApproved || got.Status == domain.StatusRejected)
}

func TestLegal(t *testing.T) {
	assert.True(t, Legal(domain.KindNote, domain.StatusPending, domain.StatusApproved))
	assert.True(t, Legal(domain.KindLostFound, domain.StatusPending, domain.StatusRejected))
	assert.True(t, Legal(domain.KindMarketplace, domain.StatusApproved, domain.StatusSold))
	assert.True(t, Legal(domain.KindMarketplace, domain.StatusApproved, domain.StatusInactive))

	assert.False(t, Legal(domain.KindLostFound, domain.StatusApproved, domain.StatusSold))
	assert.False(t, Legal(domain.KindMarketplace, domain.StatusPending, domain.StatusInactive))
	assert.False(t, Legal(domain.KindMarketplace, domain.StatusSold, domain.StatusInactive))
	assert.False(t, Legal(domain.KindNote, domain.StatusRejected, domain.StatusPending))
}
