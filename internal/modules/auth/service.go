package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusportal/internal/domain"
	"campusportal/internal/mailer"
)

const (
	otpTTL         = 10 * time.Minute
	resendCooldown = time.Minute
)

type jwtService interface {
	GenerateToken(userID int64, role domain.UserRole) (string, error)
}

// Service contains all business logic for signup, login, OTP verification
// and password reset.
type Service struct {
	users  UserRepository
	jwt    jwtService
	mailer mailer.Mailer
	pepper string
}

type LoginResult struct {
	User  *domain.User
	Token string
}

func NewService(users UserRepository, jwt jwtService, m mailer.Mailer, otpPepper string) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		mailer: m,
		pepper: otpPepper,
	}
}

// Signup creates an unverified account and sends a verification code to the
// given email. Login is refused until the code is confirmed.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	expires := now.Add(otpTTL)

	user := &domain.User{
		Name:          req.Name,
		Email:         email,
		PasswordHash:  string(hash),
		Phone:         req.Phone,
		Role:          domain.RoleUser,
		Verified:      false,
		OTPHash:       s.hashOTP(code),
		OTPExpiresAt:  &expires,
		OTPLastSentAt: &now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendOTP(user.Email, code); err != nil {
		return nil, fmt.Errorf("failed to send verification code: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Token: token}, nil
}

// VerifyOTP confirms the signup code and marks the account verified.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*domain.User, error) {
	user, err := s.getByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return nil, ErrAlreadyVerified
	}

	if user.OTPHash == "" || s.hashOTP(req.OTP) != user.OTPHash {
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return nil, ErrOTPExpired
	}

	user.Verified = true
	user.OTPHash = ""
	user.OTPExpiresAt = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// ResendOTP issues a fresh signup code, at most once per cooldown window.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Verified {
		return ErrAlreadyVerified
	}
	if user.OTPLastSentAt != nil && time.Since(*user.OTPLastSentAt) < resendCooldown {
		return ErrResendCooldown
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	now := time.Now()
	expires := now.Add(otpTTL)
	user.OTPHash = s.hashOTP(code)
	user.OTPExpiresAt = &expires
	user.OTPLastSentAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.mailer.SendOTP(user.Email, code)
}

// ForgotPassword issues a password reset code.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(otpTTL)
	user.ResetOTPHash = s.hashOTP(code)
	user.ResetOTPExpiresAt = &expires

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.mailer.SendResetOTP(user.Email, code)
}

// ResetPassword sets a new password after checking the reset code.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	user, err := s.getByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.ResetOTPHash == "" || s.hashOTP(req.OTP) != user.ResetOTPHash {
		return ErrInvalidOTP
	}
	if user.ResetOTPExpiresAt == nil || time.Now().After(*user.ResetOTPExpiresAt) {
		return ErrOTPExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.ResetOTPHash = ""
	user.ResetOTPExpiresAt = nil
	return s.users.Update(ctx, user)
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) hashOTP(code string) string {
	sum := sha256.Sum256([]byte(code + s.pepper))
	return hex.EncodeToString(sum[:])
}

// generateOTP returns a 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
