package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *utils.Config {
	return &utils.Config{
		Token: utils.TokenConfig{ExpiryHours: 24},
		Code:  utils.CodeConfig{ExpiryMinutes: 30, Length: 6},
	}
}

func newTestAuthService(repo *repository.Repository, mail *captureMailer) *authService {
	return &authService{
		repo:   repo,
		config: testConfig(),
		mail:   mail,
		log:    zap.NewNop(),
		now:    func() time.Time { return fixedNow },
	}
}

func newUser(username, email string) *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: username,
		Email:    email,
		Role:     entity.RoleUser,
	}
}

var codePattern = regexp.MustCompile(`code is (\d+)`)

func TestSignupNewUser(t *testing.T) {
	m, repo := newMocks()
	mail := &captureMailer{}
	srv := newTestAuthService(repo, mail)

	var stored *entity.ConfirmationCode
	m.user.On("FindByUsername", mock.Anything, "alice").Return(nil, nil)
	m.user.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, nil)
	m.user.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Username == "alice" && u.Role == entity.RoleUser
	})).Return(nil).Once()
	m.code.On("InvalidateAll", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()
	m.code.On("Create", mock.Anything, mock.AnythingOfType("*entity.ConfirmationCode")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*entity.ConfirmationCode) }).
		Return(nil).Once()

	resp, err := srv.Signup(context.Background(), &request.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "alice@example.com", mail.sent[0].To)

	match := codePattern.FindStringSubmatch(mail.sent[0].Body)
	require.Len(t, match, 2)
	require.NotNil(t, stored)
	assert.True(t, utils.CheckSecretHash(match[1], stored.CodeHash))
	assert.Equal(t, fixedNow.Add(30*time.Minute), stored.ExpiresAt)

	m.assertExpectations(t)
}

func TestSignupExistingPairResendsCode(t *testing.T) {
	m, repo := newMocks()
	mail := &captureMailer{}
	srv := newTestAuthService(repo, mail)

	user := newUser("alice", "alice@example.com")
	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.user.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	m.code.On("InvalidateAll", mock.Anything, user.ID).Return(nil).Once()
	m.code.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.ConfirmationCode) bool {
		return c.UserID == user.ID
	})).Return(nil).Once()

	_, err := srv.Signup(context.Background(), &request.SignupRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Len(t, mail.sent, 1)
	m.user.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestSignupConflicts(t *testing.T) {
	tests := []struct {
		name       string
		byUsername *entity.User
		byEmail    *entity.User
		field      string
	}{
		{"username taken", newUser("alice", "other@example.com"), nil, "username"},
		{"email taken", nil, newUser("bob", "alice@example.com"), "email"},
		{"both taken by different users", newUser("alice", "x@example.com"), newUser("bob", "alice@example.com"), "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, repo := newMocks()
			mail := &captureMailer{}
			srv := newTestAuthService(repo, mail)

			m.user.On("FindByUsername", mock.Anything, "alice").Return(tt.byUsername, nil)
			m.user.On("FindByEmail", mock.Anything, "alice@example.com").Return(tt.byEmail, nil)

			_, err := srv.Signup(context.Background(), &request.SignupRequest{Username: "alice", Email: "alice@example.com"})

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, mail.sent)
		})
	}
}

func TestSignupRejectsReservedUsername(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	_, err := srv.Signup(context.Background(), &request.SignupRequest{Username: "me", Email: "me@example.com"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	m.assertExpectations(t)
}

func TestSignupMailFailure(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{err: errors.New("smtp down")})

	user := newUser("alice", "alice@example.com")
	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.user.On("FindByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	m.code.On("InvalidateAll", mock.Anything, user.ID).Return(nil)
	m.code.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := srv.Signup(context.Background(), &request.SignupRequest{Username: "alice", Email: "alice@example.com"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestIssueToken(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	user := newUser("alice", "alice@example.com")
	hash, err := utils.HashSecret("123456")
	require.NoError(t, err)
	code := &entity.ConfirmationCode{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: user.ID, CodeHash: hash}

	var session *entity.Session
	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.code.On("FindLatestValid", mock.Anything, user.ID).Return(code, nil)
	m.code.On("MarkAsUsed", mock.Anything, code.ID).Return(nil).Once()
	m.session.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).
		Run(func(args mock.Arguments) { session = args.Get(1).(*entity.Session) }).
		Return(nil).Once()

	resp, err := srv.IssueToken(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "123456"})
	require.NoError(t, err)

	require.NotNil(t, session)
	assert.Equal(t, session.Token.String(), resp.Token)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, fixedNow.Add(24*time.Hour), session.ExpiresAt)
	m.assertExpectations(t)
}

func TestIssueTokenWrongCode(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	user := newUser("alice", "alice@example.com")
	hash, err := utils.HashSecret("123456")
	require.NoError(t, err)

	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.code.On("FindLatestValid", mock.Anything, user.ID).
		Return(&entity.ConfirmationCode{UserID: user.ID, CodeHash: hash}, nil)

	_, err = srv.IssueToken(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "000000"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "confirmation_code")
	m.code.AssertNotCalled(t, "MarkAsUsed", mock.Anything, mock.Anything)
	m.session.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueTokenNoOutstandingCode(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	user := newUser("alice", "alice@example.com")
	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.code.On("FindLatestValid", mock.Anything, user.ID).Return(nil, nil)

	_, err := srv.IssueToken(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "123456"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIssueTokenCodeConsumedConcurrently(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	user := newUser("alice", "alice@example.com")
	hash, err := utils.HashSecret("123456")
	require.NoError(t, err)
	code := &entity.ConfirmationCode{BaseSimple: entity.BaseSimple{ID: uuid.New()}, UserID: user.ID, CodeHash: hash}

	m.user.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	m.code.On("FindLatestValid", mock.Anything, user.ID).Return(code, nil)
	m.code.On("MarkAsUsed", mock.Anything, code.ID).
		Return(fmt.Errorf("mark code used: %w", repository.ErrNotFound))

	_, err = srv.IssueToken(context.Background(), &request.TokenRequest{Username: "alice", ConfirmationCode: "123456"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	m.session.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIssueTokenUnknownUser(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	m.user.On("FindByUsername", mock.Anything, "ghost").Return(nil, nil)

	_, err := srv.IssueToken(context.Background(), &request.TokenRequest{Username: "ghost", ConfirmationCode: "123456"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueTokenMissingFields(t *testing.T) {
	_, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	_, err := srv.IssueToken(context.Background(), &request.TokenRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "confirmation_code")
}

func TestAuthenticate(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	user := newUser("alice", "alice@example.com")
	valid := uuid.New()
	expired := uuid.New()

	m.session.On("FindValidSession", mock.Anything, valid).Return(&entity.Session{UserID: user.ID, Token: valid}, nil)
	m.session.On("FindValidSession", mock.Anything, expired).Return(nil, nil)
	m.user.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	got, err := srv.Authenticate(context.Background(), valid.String())
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = srv.Authenticate(context.Background(), expired.String())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = srv.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	active := uuid.New()
	revoked := uuid.New()
	m.session.On("Revoke", mock.Anything, active).Return(nil).Once()
	m.session.On("Revoke", mock.Anything, revoked).Return(fmt.Errorf("revoke: %w", repository.ErrNotFound))

	assert.NoError(t, srv.Logout(context.Background(), active.String()))
	assert.ErrorIs(t, srv.Logout(context.Background(), revoked.String()), ErrUnauthorized)
	assert.ErrorIs(t, srv.Logout(context.Background(), "garbage"), ErrUnauthorized)
	m.assertExpectations(t)
}

func TestCleanupExpired(t *testing.T) {
	m, repo := newMocks()
	srv := newTestAuthService(repo, &captureMailer{})

	m.session.On("CleanExpiredSessions", mock.Anything).Return(int64(3), nil)
	m.code.On("DeleteExpired", mock.Anything).Return(int64(5), nil)

	sessions, codes, err := srv.CleanupExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), sessions)
	assert.Equal(t, int64(5), codes)
}
