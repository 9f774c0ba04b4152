package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campusportal/internal/domain"
)

// fakeUserStore keeps users in memory so the multi-step signup -> verify ->
// login flow runs against real state.
type fakeUserStore struct {
	nextID int64
	byID   map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, byID: make(map[int64]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, u *domain.User) error {
	u.ID = s.nextID
	s.nextID++
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *fakeUserStore) Update(ctx context.Context, u *domain.User) error {
	if _, ok := s.byID[u.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *u
	s.byID[u.ID] = &cp
	return nil
}

// captureMailer records the last code per address instead of sending mail.
type captureMailer struct {
	otps   map[string]string
	resets map[string]string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{otps: make(map[string]string), resets: make(map[string]string)}
}

func (m *captureMailer) SendOTP(to, code string) error {
	m.otps[to] = code
	return nil
}

func (m *captureMailer) SendResetOTP(to, code string) error {
	m.resets[to] = code
	return nil
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID int64, role domain.UserRole) (string, error) {
	return "test-token", nil
}

func newTestAuth() (*Service, *fakeUserStore, *captureMailer) {
	store := newFakeUserStore()
	m := newCaptureMailer()
	return NewService(store, stubJWT{}, m, "pepper"), store, m
}

func signup(t *testing.T, svc *Service) *domain.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), SignupRequest{
		Name:     "Dana",
		Email:    "dana@campus.edu",
		Password: "secret123",
	})
	require.NoError(t, err)
	return user
}

func TestService_Signup(t *testing.T) {
	svc, store, m := newTestAuth()

	user := signup(t, svc)

	assert.False(t, user.Verified)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Empty(t, user.PasswordHash, "hash must not leak in the response")

	stored, err := store.GetByEmail(context.Background(), "dana@campus.edu")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	code := m.otps["dana@campus.edu"]
	require.Len(t, code, 6)
	assert.NotEqual(t, code, stored.OTPHash, "code must be stored hashed")
}

func TestService_SignupNormalizesEmail(t *testing.T) {
	svc, store, _ := newTestAuth()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Dana", Email: "  Dana@Campus.EDU ", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = store.GetByEmail(context.Background(), "dana@campus.edu")
	assert.NoError(t, err)
}

func TestService_SignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth()
	signup(t, svc)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Other", Email: "dana@campus.edu", Password: "secret456",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_LoginRequiresVerification(t *testing.T) {
	svc, _, _ := newTestAuth()
	signup(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "dana@campus.edu", Password: "secret123"})
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestService_VerifyThenLogin(t *testing.T) {
	svc, _, m := newTestAuth()
	signup(t, svc)
	ctx := context.Background()

	// wrong code first
	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "dana@campus.edu", OTP: "000000"})
	if m.otps["dana@campus.edu"] != "000000" {
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	user, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "dana@campus.edu", OTP: m.otps["dana@campus.edu"]})
	require.NoError(t, err)
	assert.True(t, user.Verified)

	res, err := svc.Login(ctx, LoginRequest{Email: "dana@campus.edu", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "test-token", res.Token)
	assert.Empty(t, res.User.PasswordHash)

	// a second verification attempt is refused
	_, err = svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "dana@campus.edu", OTP: m.otps["dana@campus.edu"]})
	assert.ErrorIs(t, err, ErrAlreadyVerified)
}

func TestService_VerifyExpiredOTP(t *testing.T) {
	svc, store, m := newTestAuth()
	user := signup(t, svc)

	stored, _ := store.GetByID(context.Background(), user.ID)
	expired := time.Now().Add(-time.Minute)
	stored.OTPExpiresAt = &expired
	require.NoError(t, store.Update(context.Background(), stored))

	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Email: "dana@campus.edu", OTP: m.otps["dana@campus.edu"]})
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestService_LoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuth()
	signup(t, svc)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "dana@campus.edu", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown account looks the same as a bad password
	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@campus.edu", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResendOTPCooldown(t *testing.T) {
	svc, store, _ := newTestAuth()
	user := signup(t, svc)
	ctx := context.Background()

	err := svc.ResendOTP(ctx, "dana@campus.edu")
	assert.ErrorIs(t, err, ErrResendCooldown)

	// age the last send past the cooldown window
	stored, _ := store.GetByID(ctx, user.ID)
	past := time.Now().Add(-2 * time.Minute)
	stored.OTPLastSentAt = &past
	require.NoError(t, store.Update(ctx, stored))

	assert.NoError(t, svc.ResendOTP(ctx, "dana@campus.edu"))
}

func TestService_PasswordResetFlow(t *testing.T) {
	svc, _, m := newTestAuth()
	signup(t, svc)
	ctx := context.Background()

	_, err := svc.VerifyOTP(ctx, VerifyOTPRequest{Email: "dana@campus.edu", OTP: m.otps["dana@campus.edu"]})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "dana@campus.edu"))
	code := m.resets["dana@campus.edu"]
	require.Len(t, code, 6)

	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "dana@campus.edu", OTP: "999999", NewPassword: "newpass123"})
	if code != "999999" {
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{Email: "dana@campus.edu", OTP: code, NewPassword: "newpass123"}))

	_, err = svc.Login(ctx, LoginRequest{Email: "dana@campus.edu", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "dana@campus.edu", Password: "newpass123"})
	assert.NoError(t, err)

	// the reset code is single-use
	err = svc.ResetPassword(ctx, ResetPasswordRequest{Email: "dana@campus.edu", OTP: code, NewPassword: "another123"})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestService_ForgotPasswordUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuth()

	err := svc.ForgotPassword(context.Background(), "ghost@campus.edu")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_UpdateProfile(t *testing.T) {
	svc, _, _ := newTestAuth()
	user := signup(t, svc)
	ctx := context.Background()

	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{Name: "Dana K.", Phone: "+77001234567"})
	require.NoError(t, err)
	assert.Equal(t, "Dana K.", updated.Name)
	assert.Equal(t, "+77001234567", updated.Phone)

	// empty fields keep their current values
	updated, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Dana K.", updated.Name)
	assert.Equal(t, "+77001234567", updated.Phone)
}

func TestService_GetProfileNotFound(t *testing.T) {
	svc, _, _ := newTestAuth()

	_, err := svc.GetProfile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
