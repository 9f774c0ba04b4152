package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email" gorm:"uniqueIndex"`
	PasswordHash string   `json:"-"`
	Phone        string   `json:"phone,omitempty"`
	Role         UserRole `json:"role"`
	Verified     bool     `json:"verified"`

	// OTP state for signup verification and password reset. Codes are stored
	// hashed, never in plain text.
	OTPHash           string     `json:"-"`
	OTPExpiresAt      *time.Time `json:"-"`
	OTPLastSentAt     *time.Time `json:"-"`
	ResetOTPHash      string     `json:"-"`
	ResetOTPExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
