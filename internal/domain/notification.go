package domain

import "time"

// Notification type constants
const (
	NotifTypeItemApproved = "item.approved"
	NotifTypeItemRejected = "item.rejected"
	NotifTypeItemSold     = "item.sold"
	NotifTypeItemInactive = "item.inactive"
	NotifTypeGeneral      = "general"
)

// Notification is a user-facing notice. Created by the workflow engine on
// status transitions or by the user themself; only the Read flag ever mutates.
type Notification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id" gorm:"index"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	RelatedItemID *int64    `json:"related_item_id,omitempty"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
