package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"communityticketing/internal/domain"
)

type mockUserRepository struct {
	usersByEmail map[string]*domain.User
	usersByID    map[string]*domain.User
	createErr    error
	updateErr    error
	created      int
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created++
	user.ID = "u-new"
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	return m.updateErr
}

type storedCode struct {
	id       string
	salt     string
	codeHash string
}

type mockLoginCodeRepository struct {
	codes   map[string]storedCode
	deleted []string
}

func (m *mockLoginCodeRepository) Create(ctx context.Context, email, salt, codeHash string, expiresAt time.Time) error {
	if m.codes == nil {
		m.codes = map[string]storedCode{}
	}
	m.codes[email] = storedCode{id: "lc-1", salt: salt, codeHash: codeHash}
	return nil
}

func (m *mockLoginCodeRepository) Get(ctx context.Context, email string) (string, string, string, error) {
	c, ok := m.codes[email]
	if !ok {
		return "", "", "", domain.ErrNotFound
	}
	return c.id, c.salt, c.codeHash, nil
}

func (m *mockLoginCodeRepository) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// fakeCodeHasher is deterministic so tests can recover the stored code.
type fakeCodeHasher struct{}

func (fakeCodeHasher) GenerateSalt() (string, error) { return "salt", nil }
func (fakeCodeHasher) Hash(salt, code string) string { return salt + ":" + code }
func (fakeCodeHasher) Compare(hash, salt, code string) bool {
	return hash == salt+":"+code
}

type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-" + userID, nil
}

func TestUserService_RequestLoginCode(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{name: "valid email", email: "jo@example.com"},
		{name: "uppercase email is normalized", email: "JO@Example.COM"},
		{name: "invalid email", email: "not-an-email", wantErr: domain.ErrInvalidInput},
		{name: "empty email", email: "", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := &mockLoginCodeRepository{}
			svc := NewUserService(&mockUserRepository{}, codes, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})

			err := svc.RequestLoginCode(context.Background(), tt.email)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := codes.codes["jo@example.com"]; !ok {
				t.Fatalf("code stored under wrong key: %v", codes.codes)
			}
		})
	}
}

func TestUserService_VerifyLoginCode(t *testing.T) {
	existing := &domain.User{ID: "u1", Email: "jo@example.com"}

	seed := func(email, code string) *mockLoginCodeRepository {
		h := fakeCodeHasher{}
		return &mockLoginCodeRepository{codes: map[string]storedCode{
			email: {id: "lc-1", salt: "salt", codeHash: h.Hash("salt", code)},
		}}
	}

	t.Run("existing user logs in", func(t *testing.T) {
		codes := seed("jo@example.com", "123456")
		users := &mockUserRepository{usersByEmail: map[string]*domain.User{"jo@example.com": existing}}
		svc := NewUserService(users, codes, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})

		token, user, err := svc.VerifyLoginCode(context.Background(), "jo@example.com", "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "token-u1" || user.ID != "u1" {
			t.Fatalf("unexpected login result: %s %+v", token, user)
		}
		if len(codes.deleted) != 1 || codes.deleted[0] != "lc-1" {
			t.Fatalf("code must be single-use, deleted=%v", codes.deleted)
		}
		if users.created != 0 {
			t.Fatal("existing user must not be re-created")
		}
	})

	t.Run("first login creates the account", func(t *testing.T) {
		codes := seed("new@example.com", "123456")
		users := &mockUserRepository{}
		svc := NewUserService(users, codes, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})

		token, user, err := svc.VerifyLoginCode(context.Background(), "new@example.com", "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if users.created != 1 {
			t.Fatalf("expected account creation, created=%d", users.created)
		}
		if user.Email != "new@example.com" || token != "token-u-new" {
			t.Fatalf("unexpected login result: %s %+v", token, user)
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		codes := seed("jo@example.com", "123456")
		svc := NewUserService(&mockUserRepository{}, codes, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})

		_, _, err := svc.VerifyLoginCode(context.Background(), "jo@example.com", "654321")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
		if len(codes.deleted) != 0 {
			t.Fatal("failed compare must not consume the code")
		}
	})

	t.Run("no code on file", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, &mockLoginCodeRepository{}, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})
		_, _, err := svc.VerifyLoginCode(context.Background(), "jo@example.com", "123456")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("malformed code is rejected before lookup", func(t *testing.T) {
		svc := NewUserService(&mockUserRepository{}, &mockLoginCodeRepository{}, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})
		_, _, err := svc.VerifyLoginCode(context.Background(), "jo@example.com", "abc")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name      string
		user      *domain.User
		updateErr error
		wantErr   error
	}{
		{
			name: "trims name fields",
			user: &domain.User{ID: "u1", Name: "  Jo ", LastName: " Doe "},
		},
		{
			name:    "invalid email",
			user:    &domain.User{ID: "u1", Email: "broken"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:      "duplicate email from repo",
			user:      &domain.User{ID: "u1", Email: "jo@example.com"},
			updateErr: domain.ErrDuplicateEmail,
			wantErr:   domain.ErrDuplicateEmail,
		},
		{
			name:      "unknown user from repo",
			user:      &domain.User{ID: "nope"},
			updateErr: domain.ErrNotFound,
			wantErr:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepository{updateErr: tt.updateErr}
			svc := NewUserService(users, &mockLoginCodeRepository{}, fakeCodeHasher{}, &mockTokenIssuer{}, time.Hour, &mockNotificationService{})

			err := svc.Update(context.Background(), tt.user)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.user.Name != "Jo" || tt.user.LastName != "Doe" {
				t.Fatalf("names not trimmed: %q %q", tt.user.Name, tt.user.LastName)
			}
		})
	}
}
