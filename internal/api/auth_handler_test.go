package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// mockUserStore implements store.UserStore with overridable functions.
type mockUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) error
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.User, error) {
	return map[uuid.UUID]*domain.User{}, nil
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) { return nil, nil }

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error { return nil }

// stubJWTService returns a fixed token.
type stubJWTService struct{}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "stub-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

// stubPasswordVerifier accepts one password.
type stubPasswordVerifier struct {
	accept string
}

func (s *stubPasswordVerifier) Compare(ctx context.Context, hashedPassword, password string) error {
	if password == s.accept {
		return nil
	}
	return errors.New("password does not match")
}

func (s *stubPasswordVerifier) Hash(ctx context.Context, password string) (string, error) {
	return "hashed:" + password, nil
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var created *domain.User
		users := &mockUserStore{
			createFn: func(ctx context.Context, user *domain.User) error {
				created = user
				return nil
			},
		}
		handler := NewAuthHandler(users, &stubJWTService{}, &stubPasswordVerifier{})

		body := bytes.NewBufferString(`{"username":"ana","email":"ana@example.com","password":"long-enough-pw"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "ana", created.Username)
		assert.Equal(t, "hashed:long-enough-pw", created.HashedPassword)
		assert.Empty(t, created.Password, "plaintext never persisted")

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "stub-token", resp.Token)
	})

	t.Run("short password", func(t *testing.T) {
		t.Parallel()
		handler := NewAuthHandler(&mockUserStore{}, &stubJWTService{}, &stubPasswordVerifier{})

		body := bytes.NewBufferString(`{"username":"ana","email":"ana@example.com","password":"short"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		users := &mockUserStore{
			createFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := NewAuthHandler(users, &stubJWTService{}, &stubPasswordVerifier{})

		body := bytes.NewBufferString(`{"username":"ana","email":"ana@example.com","password":"long-enough-pw"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
		rec := httptest.NewRecorder()
		handler.Register(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	users := &mockUserStore{
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email == "ana@example.com" {
				return &domain.User{
					ID:             userID,
					Username:       "ana",
					Email:          email,
					HashedPassword: "hashed",
				}, nil
			}
			return nil, store.ErrUserNotFound
		},
	}
	verifier := &stubPasswordVerifier{accept: "correct-password"}
	handler := NewAuthHandler(users, &stubJWTService{}, verifier)

	t.Run("success", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email":"ana@example.com","password":"correct-password"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, userID, resp.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email":"ana@example.com","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email":"ghost@example.com","password":"whatever"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		rec := httptest.NewRecorder()
		handler.Login(rec, req)

		// Indistinguishable from a wrong password
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
