package registration

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wemakecorder/api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockOTPStore struct{ mock.Mock }

func (m *mockOTPStore) Put(ctx context.Context, rec *domain.OTPRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockOTPStore) FindActive(ctx context.Context, email, code string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email, code)
	if r, _ := args.Get(0).(*domain.OTPRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) FindVerified(ctx context.Context, email string) (*domain.OTPRecord, error) {
	args := m.Called(ctx, email)
	if r, _ := args.Get(0).(*domain.OTPRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOTPStore) MarkConsumed(ctx context.Context, email, otpID string, at time.Time) error {
	return m.Called(ctx, email, otpID, at).Error(0)
}
func (m *mockOTPStore) Delete(ctx context.Context, email, otpID string) error {
	return m.Called(ctx, email, otpID).Error(0)
}
func (m *mockOTPStore) DeleteForEmail(ctx context.Context, email string, onlyUnused bool) error {
	return m.Called(ctx, email, onlyUnused).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	args := m.Called(ctx, phone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendOTPEmail(to, code string) error {
	return m.Called(to, code).Error(0)
}

type mockJWTSigner struct{ mock.Mock }

func (m *mockJWTSigner) Sign(subjectID, role string) (string, error) {
	args := m.Called(subjectID, role)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func newService(os *mockOTPStore, us *mockUserStore, ml *mockMailer, jwt *mockJWTSigner) Service {
	return NewService(ServiceDeps{
		OTPRepo:  os,
		UserRepo: us,
		Mailer:   ml,
		JWT:      jwt,
	})
}

func notFound() error { return domain.ErrNotFound }

func validCode(t *testing.T, code string) {
	t.Helper()
	require.Len(t, code, 6)
	n, err := strconv.Atoi(code)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 100000)
	assert.LessOrEqual(t, n, 999999)
}

// --- CheckEmail ---

func TestCheckEmail_Available(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())

	svc := newService(nil, us, nil, nil)
	require.NoError(t, svc.CheckEmail(context.Background(), "a@test.com"))
	us.AssertExpectations(t)
}

func TestCheckEmail_NormalizesBeforeLookup(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())

	svc := newService(nil, us, nil, nil)
	require.NoError(t, svc.CheckEmail(context.Background(), "  A@Test.com "))
	us.AssertExpectations(t)
}

func TestCheckEmail_AlreadyRegistered(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(&domain.User{}, nil)

	svc := newService(nil, us, nil, nil)
	err := svc.CheckEmail(context.Background(), "a@test.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))
}

// --- SendOTP ---

func TestSendOTP_HappyPath(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())

	var stored *domain.OTPRecord
	os.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.OTPRecord) }).
		Return(nil)
	ml.On("SendOTPEmail", "a@test.com", mock.AnythingOfType("string")).Return(nil)

	svc := newService(os, us, ml, nil)
	require.NoError(t, svc.SendOTP(context.Background(), "A@Test.com "))

	require.NotNil(t, stored)
	assert.Equal(t, "a@test.com", stored.Email)
	assert.False(t, stored.Used)
	assert.False(t, stored.Verified)
	validCode(t, stored.Code)

	// Expiry is creation time + 5 minutes.
	assert.InDelta(t, time.Now().Add(5*time.Minute).Unix(), stored.ExpiresAt, 5)

	// Exactly one dispatch, carrying the stored code.
	ml.AssertNumberOfCalls(t, "SendOTPEmail", 1)
	ml.AssertCalled(t, "SendOTPEmail", "a@test.com", stored.Code)
}

func TestSendOTP_AlreadyRegistered_NoRecordCreated(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(&domain.User{}, nil)

	svc := newService(os, us, nil, nil)
	err := svc.SendOTP(context.Background(), "a@test.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))
	os.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestSendOTP_DispatchFailure_RollsBackRecord(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())

	var stored *domain.OTPRecord
	os.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.OTPRecord) }).
		Return(nil)
	ml.On("SendOTPEmail", "a@test.com", mock.Anything).Return(errors.New("smtp: connection refused"))
	os.On("Delete", mock.Anything, "a@test.com", mock.Anything).Return(nil)

	svc := newService(os, us, ml, nil)
	err := svc.SendOTP(context.Background(), "a@test.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDispatch))
	os.AssertCalled(t, "Delete", mock.Anything, "a@test.com", stored.OTPID)
}

// --- ResendOTP ---

func TestResendOTP_WipesAllRecordsFirst(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	ml := &mockMailer{}

	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())
	os.On("DeleteForEmail", mock.Anything, "a@test.com", false).Return(nil)
	os.On("Put", mock.Anything, mock.AnythingOfType("*domain.OTPRecord")).Return(nil)
	ml.On("SendOTPEmail", "a@test.com", mock.Anything).Return(nil)

	svc := newService(os, us, ml, nil)
	require.NoError(t, svc.ResendOTP(context.Background(), "a@test.com"))

	os.AssertCalled(t, "DeleteForEmail", mock.Anything, "a@test.com", false)
	os.AssertCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestResendOTP_AlreadyRegistered(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(&domain.User{}, nil)

	svc := newService(os, us, nil, nil)
	err := svc.ResendOTP(context.Background(), "a@test.com")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAlreadyRegistered))
	os.AssertNotCalled(t, "DeleteForEmail", mock.Anything, mock.Anything, mock.Anything)
}

// --- VerifyOTP ---

func TestVerifyOTP_HappyPath(t *testing.T) {
	os := &mockOTPStore{}
	rec := &domain.OTPRecord{
		Email:     "a@test.com",
		OTPID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Code:      "123456",
		ExpiresAt: time.Now().Add(3 * time.Minute).Unix(),
	}
	os.On("FindActive", mock.Anything, "a@test.com", "123456").Return(rec, nil)
	os.On("MarkConsumed", mock.Anything, "a@test.com", rec.OTPID, mock.Anything).Return(nil)

	svc := newService(os, nil, nil, nil)
	require.NoError(t, svc.VerifyOTP(context.Background(), "A@Test.com ", "123456"))
	os.AssertExpectations(t)
}

func TestVerifyOTP_NoMatch_InvalidCode(t *testing.T) {
	os := &mockOTPStore{}
	os.On("FindActive", mock.Anything, "a@test.com", "000000").Return(nil, notFound())

	svc := newService(os, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@test.com", "000000")
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

func TestVerifyOTP_Expired_PurgesRecord(t *testing.T) {
	os := &mockOTPStore{}
	rec := &domain.OTPRecord{
		Email:     "a@test.com",
		OTPID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}
	os.On("FindActive", mock.Anything, "a@test.com", "123456").Return(rec, nil)
	os.On("Delete", mock.Anything, "a@test.com", rec.OTPID).Return(nil)

	svc := newService(os, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@test.com", "123456")

	assert.True(t, errors.Is(err, domain.ErrExpiredCode))
	os.AssertCalled(t, "Delete", mock.Anything, "a@test.com", rec.OTPID)
	os.AssertNotCalled(t, "MarkConsumed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOTP_ConsumeRaceLost_InvalidCode(t *testing.T) {
	os := &mockOTPStore{}
	rec := &domain.OTPRecord{
		Email:     "a@test.com",
		OTPID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Code:      "123456",
		ExpiresAt: time.Now().Add(3 * time.Minute).Unix(),
	}
	os.On("FindActive", mock.Anything, "a@test.com", "123456").Return(rec, nil)
	// Another request consumed the record between FindActive and MarkConsumed.
	os.On("MarkConsumed", mock.Anything, "a@test.com", rec.OTPID, mock.Anything).Return(notFound())

	svc := newService(os, nil, nil, nil)
	err := svc.VerifyOTP(context.Background(), "a@test.com", "123456")
	assert.True(t, errors.Is(err, domain.ErrInvalidCode))
}

// --- Register ---

func baseRegisterReq() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:     "Alice Smith",
		Email:    "A@Test.com ",
		Phone:    "5551234567",
		Password: "password123",
	}
}

func TestRegister_NotVerified(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())
	us.On("GetByPhone", mock.Anything, "5551234567").Return(nil, notFound())
	os.On("FindVerified", mock.Anything, "a@test.com").Return(nil, notFound())

	svc := newService(os, us, nil, nil)
	_, _, err := svc.Register(context.Background(), baseRegisterReq())

	assert.True(t, errors.Is(err, domain.ErrNotVerified))
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(&domain.User{}, nil)

	svc := newService(nil, us, nil, nil)
	_, _, err := svc.Register(context.Background(), baseRegisterReq())
	assert.True(t, errors.Is(err, domain.ErrDuplicateEmail))
}

func TestRegister_DuplicatePhone(t *testing.T) {
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())
	us.On("GetByPhone", mock.Anything, "5551234567").Return(&domain.User{}, nil)

	svc := newService(nil, us, nil, nil)
	_, _, err := svc.Register(context.Background(), baseRegisterReq())
	assert.True(t, errors.Is(err, domain.ErrDuplicatePhone))
}

func TestRegister_StaleVerifiedRecord_Purged(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())
	us.On("GetByPhone", mock.Anything, "5551234567").Return(nil, notFound())

	rec := &domain.OTPRecord{
		Email:      "a@test.com",
		OTPID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Used:       true,
		Verified:   true,
		VerifiedAt: time.Now().Add(-time.Hour).Unix(),
	}
	os.On("FindVerified", mock.Anything, "a@test.com").Return(rec, nil)
	os.On("Delete", mock.Anything, "a@test.com", rec.OTPID).Return(nil)

	svc := newService(os, us, nil, nil)
	_, _, err := svc.Register(context.Background(), baseRegisterReq())

	assert.True(t, errors.Is(err, domain.ErrNotVerified))
	os.AssertCalled(t, "Delete", mock.Anything, "a@test.com", rec.OTPID)
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_HappyPath(t *testing.T) {
	os := &mockOTPStore{}
	us := &mockUserStore{}
	jwt := &mockJWTSigner{}

	us.On("GetByEmail", mock.Anything, "a@test.com").Return(nil, notFound())
	us.On("GetByPhone", mock.Anything, "5551234567").Return(nil, notFound())

	rec := &domain.OTPRecord{
		Email:      "a@test.com",
		OTPID:      "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Used:       true,
		Verified:   true,
		VerifiedAt: time.Now().Add(-time.Minute).Unix(),
	}
	os.On("FindVerified", mock.Anything, "a@test.com").Return(rec, nil)

	var created *domain.User
	us.On("Put", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)
	os.On("Delete", mock.Anything, "a@test.com", rec.OTPID).Return(nil)
	jwt.On("Sign", mock.Anything, domain.RoleUser).Return("bearer-token", nil)

	svc := newService(os, us, nil, jwt)
	u, token, err := svc.Register(context.Background(), baseRegisterReq())

	require.NoError(t, err)
	assert.Equal(t, "bearer-token", token)
	assert.Equal(t, "a@test.com", u.Email)
	assert.Equal(t, "5551234567", u.Phone)
	assert.NotEmpty(t, u.UserID)

	// Stored hash verifies against the plaintext, and the plaintext is gone.
	require.NotNil(t, created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
	assert.NotEqual(t, "password123", created.PasswordHash)

	// The consumed proof is removed so it can't back a second registration.
	os.AssertCalled(t, "Delete", mock.Anything, "a@test.com", rec.OTPID)
}

// --- code generation ---

func TestGenerateCode_SixDigitRange(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		validCode(t, code)
		seen[code] = true
	}
	// 200 draws from 900k values collide with negligible probability.
	assert.Greater(t, len(seen), 190)
}
