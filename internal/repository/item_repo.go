package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campusportal/internal/domain"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.ModeratedItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.ModeratedItem, error) {
	var item domain.ModeratedItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateStatusCAS applies "set status to next only if the current status still
// equals expected" as one conditional UPDATE, so two concurrent moderators
// cannot both win. Returns false when the precondition no longer held.
func (r *ItemRepository) UpdateStatusCAS(ctx context.Context, id int64, expected, next domain.ItemStatus, reason string) (bool, error) {
	updates := map[string]any{
		"status":     next,
		"updated_at": time.Now(),
	}
	if reason != "" {
		updates["rejected_reason"] = reason
	}

	res := r.db.WithContext(ctx).Model(&domain.ModeratedItem{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListApproved returns publicly visible items, newest first. Sold and inactive
// marketplace items are excluded unless includePostSale is set.
func (r *ItemRepository) ListApproved(ctx context.Context, kind domain.ItemKind, includePostSale bool) ([]domain.ModeratedItem, error) {
	statuses := []domain.ItemStatus{domain.StatusApproved}
	if includePostSale {
		statuses = append(statuses, domain.StatusSold, domain.StatusInactive)
	}

	var items []domain.ModeratedItem
	err := r.db.WithContext(ctx).
		Where("kind = ? AND status IN ?", kind, statuses).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) ListByOwner(ctx context.Context, kind domain.ItemKind, ownerID int64) ([]domain.ModeratedItem, error) {
	var items []domain.ModeratedItem
	err := r.db.WithContext(ctx).
		Where("kind = ? AND owner_id = ?", kind, ownerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) ListByStatus(ctx context.Context, kind domain.ItemKind, status domain.ItemStatus) ([]domain.ModeratedItem, error) {
	var items []domain.ModeratedItem
	err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, status).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) ListAll(ctx context.Context, kind domain.ItemKind) ([]domain.ModeratedItem, error) {
	var items []domain.ModeratedItem
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.ModeratedItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
