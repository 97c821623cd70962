package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/data/entity"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAuth struct {
	users map[string]*entity.User
	err   error
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*entity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, fmt.Errorf("token %s: %w", token, usecase.ErrUnauthorized)
	}
	return user, nil
}

// whoami echoes the username attached by AuthSession, or "anonymous".
func whoami() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := utils.GetActorFromContext(r.Context())
		if !ok {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(actor.Role + ":" + actor.UserID.String()))
	})
}

func TestAuthSession(t *testing.T) {
	alice := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: entity.RoleModerator}
	auth := &fakeAuth{users: map[string]*entity.User{"good": alice}}
	handler := AuthSession(auth, zap.NewNop())(whoami())

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "moderator:" + alice.ID.String()},
		{"lowercase scheme", "bearer good", http.StatusOK, "moderator:" + alice.ID.String()},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"missing token", "Bearer", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthSessionStoreFailure(t *testing.T) {
	handler := AuthSession(&fakeAuth{err: errors.New("db down")}, zap.NewNop())(whoami())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthSessionStoresToken(t *testing.T) {
	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleUser}
	auth := &fakeAuth{users: map[string]*entity.User{"tok": user}}

	var token string
	handler := AuthSession(auth, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _ = utils.GetTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "tok", token)
}

func serveAs(handler http.Handler, method string, actor *utils.Actor) int {
	req := httptest.NewRequest(method, "/", nil)
	if actor != nil {
		req = req.WithContext(utils.SetUserContext(req.Context(), actor.UserID, actor.Role))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), entity.RoleAdmin, entity.RoleModerator)(whoami())

	assert.Equal(t, http.StatusUnauthorized, serveAs(handler, http.MethodGet, nil))
	assert.Equal(t, http.StatusForbidden, serveAs(handler, http.MethodGet, &utils.Actor{UserID: uuid.New(), Role: "user"}))
	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodGet, &utils.Actor{UserID: uuid.New(), Role: "moderator"}))
}

func TestAdminOrReadOnly(t *testing.T) {
	handler := AdminOrReadOnly(zap.NewNop())(whoami())
	user := &utils.Actor{UserID: uuid.New(), Role: "user"}
	admin := &utils.Actor{UserID: uuid.New(), Role: "admin"}

	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodGet, nil))
	assert.Equal(t, http.StatusUnauthorized, serveAs(handler, http.MethodPost, nil))
	assert.Equal(t, http.StatusForbidden, serveAs(handler, http.MethodDelete, user))
	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodPost, admin))
}

func TestAuthenticatedOrReadOnly(t *testing.T) {
	handler := AuthenticatedOrReadOnly(whoami())

	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodGet, nil))
	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodHead, nil))
	assert.Equal(t, http.StatusUnauthorized, serveAs(handler, http.MethodPatch, nil))
	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodPatch, &utils.Actor{UserID: uuid.New(), Role: "user"}))
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(whoami())

	assert.Equal(t, http.StatusUnauthorized, serveAs(handler, http.MethodGet, nil))
	assert.Equal(t, http.StatusUnauthorized, serveAs(handler, http.MethodGet, &utils.Actor{UserID: uuid.Nil, Role: "admin"}))
	assert.Equal(t, http.StatusOK, serveAs(handler, http.MethodGet, &utils.Actor{UserID: uuid.New(), Role: "user"}))
}
