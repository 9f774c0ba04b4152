package workflow

import "campusportal/internal/domain"

// Actor is the authenticated user or admin performing an operation.
type Actor struct {
	ID   int64
	Role domain.UserRole
}

// CanModerate reports whether the actor may approve or reject submissions.
func CanModerate(actor Actor) bool {
	return actor.Role == domain.RoleAdmin
}

// CanMutateItem reports whether the actor may modify or delete the item:
// the owner, or an admin.
func CanMutateItem(actor Actor, item *domain.ModeratedItem) bool {
	return actor.ID == item.OwnerID || actor.Role == domain.RoleAdmin
}
