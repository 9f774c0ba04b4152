package domain

import "time"

type ItemKind string

const (
	KindLostFound   ItemKind = "lost_found"
	KindMarketplace ItemKind = "marketplace"
	KindNote        ItemKind = "note"
)

type ItemStatus string

const (
	StatusPending  ItemStatus = "pending"
	StatusApproved ItemStatus = "approved"
	StatusRejected ItemStatus = "rejected"
	// Marketplace-only post-approval states, set by the owner.
	StatusSold     ItemStatus = "sold"
	StatusInactive ItemStatus = "inactive"
)

// ModeratedItem is any user-submitted content that needs admin approval before
// it becomes publicly visible. One table holds all three kinds; the payload
// columns that apply depend on Kind.
type ModeratedItem struct {
	ID        int64    `json:"id"`
	Kind      ItemKind `json:"kind" gorm:"index"`
	OwnerID   int64    `json:"owner_id" gorm:"index"`
	OwnerName string   `json:"owner_name"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       *float64 `json:"price,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Subject     string   `json:"subject,omitempty"`

	AttachmentURL string `json:"attachment_url,omitempty"`

	Status         ItemStatus `json:"status" gorm:"index"`
	RejectedReason string     `json:"rejected_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ModeratedItem) TableName() string { return "moderated_items" }

// Terminal reports whether no further transition is defined from the item's
// current status.
func (m *ModeratedItem) Terminal() bool {
	switch m.Status {
	case StatusRejected, StatusSold, StatusInactive:
		return true
	case StatusApproved:
		return m.Kind != KindMarketplace
	}
	return false
}
