package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/workforce-planner/internal/persistence"
)

type operatorStoreStub struct {
	operators map[string]persistence.Operator
}

func (s *operatorStoreStub) GetOperator(ctx context.Context, id string) (persistence.Operator, error) {
	for _, operator := range s.operators {
		if operator.ID == id {
			return operator, nil
		}
	}
	return persistence.Operator{}, persistence.ErrNotFound
}

func (s *operatorStoreStub) GetOperatorByEmail(ctx context.Context, email string) (persistence.Operator, error) {
	operator, ok := s.operators[email]
	if !ok {
		return persistence.Operator{}, persistence.ErrNotFound
	}
	return operator, nil
}

type sessionStoreStub struct {
	sessions map[string]persistence.Session
	pruned   int
}

func (s *sessionStoreStub) CreateSession(ctx context.Context, session persistence.Session) error {
	if s.sessions == nil {
		s.sessions = make(map[string]persistence.Session)
	}
	s.sessions[session.Token] = session
	return nil
}

func (s *sessionStoreStub) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (s *sessionStoreStub) RevokeSession(ctx context.Context, token string, revokedAt time.Time) error {
	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return persistence.ErrNotFound
	}
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return nil
}

func (s *sessionStoreStub) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	s.pruned++
	return nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
}

func sequenceGenerator(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func passwordStub(hashedPassword, password string) error {
	if password == "bon-mot-de-passe" {
		return nil
	}
	return ErrInvalidCredentials
}

func newAuthFixture() (*AuthService, *sessionStoreStub) {
	operators := &operatorStoreStub{operators: map[string]persistence.Operator{
		"directeur@hotel.fr": {
			ID:           "op-1",
			Email:        "directeur@hotel.fr",
			DisplayName:  "Directeur",
			PasswordHash: "$argon2id$stub",
			IsAdmin:      true,
		},
	}}
	sessions := &sessionStoreStub{}
	svc := NewAuthService(operators, sessions, passwordStub, sequenceGenerator("tok"), fixedNow, 12*time.Hour)
	return svc, sessions
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("issues a session for valid credentials", func(t *testing.T) {
		svc, sessions := newAuthFixture()

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    "  Directeur@Hotel.FR ",
			Password: "bon-mot-de-passe",
		})
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}

		if result.Operator.ID != "op-1" {
			t.Errorf("operator = %+v", result.Operator)
		}
		if result.Token == "" {
			t.Error("expected a session token")
		}
		if want := fixedNow().Add(12 * time.Hour); !result.ExpiresAt.Equal(want) {
			t.Errorf("ExpiresAt = %v, want %v", result.ExpiresAt, want)
		}
		if _, ok := sessions.sessions[result.Token]; !ok {
			t.Error("session was not persisted")
		}
		if sessions.pruned == 0 {
			t.Error("expected expired sessions to be pruned on login")
		}
	})

	t.Run("rejects unknown operators without revealing existence", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    "inconnu@hotel.fr",
			Password: "bon-mot-de-passe",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    "directeur@hotel.fr",
			Password: "mauvais",
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		svc, _ := newAuthFixture()

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	login := func(t *testing.T) (*AuthService, string) {
		t.Helper()
		svc, _ := newAuthFixture()
		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    "directeur@hotel.fr",
			Password: "bon-mot-de-passe",
		})
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		return svc, result.Token
	}

	t.Run("returns the principal for an active session", func(t *testing.T) {
		svc, token := login(t)

		principal, err := svc.ValidateSession(context.Background(), token)
		if err != nil {
			t.Fatalf("ValidateSession: %v", err)
		}
		if principal.OperatorID != "op-1" || !principal.IsAdmin {
			t.Errorf("principal = %+v", principal)
		}
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		svc, _ := login(t)

		if _, err := svc.ValidateSession(context.Background(), "nope"); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a revoked session", func(t *testing.T) {
		svc, token := login(t)

		if err := svc.RevokeSession(context.Background(), token); err != nil {
			t.Fatalf("RevokeSession: %v", err)
		}
		if _, err := svc.ValidateSession(context.Background(), token); !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("rejects an expired session", func(t *testing.T) {
		operators := &operatorStoreStub{operators: map[string]persistence.Operator{
			"directeur@hotel.fr": {ID: "op-1", Email: "directeur@hotel.fr", PasswordHash: "h"},
		}}
		sessions := &sessionStoreStub{}
		clock := fixedNow()
		now := func() time.Time { return clock }
		svc := NewAuthService(operators, sessions, passwordStub, sequenceGenerator("tok"), now, time.Hour)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			Email:    "directeur@hotel.fr",
			Password: "bon-mot-de-passe",
		})
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}

		clock = clock.Add(2 * time.Hour)
		if _, err := svc.ValidateSession(context.Background(), result.Token); !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Run("maps unknown tokens to invalid credentials", func(t *testing.T) {
		svc, _ := newAuthFixture()

		if err := svc.RevokeSession(context.Background(), "absent"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects a blank token", func(t *testing.T) {
		svc, _ := newAuthFixture()

		if err := svc.RevokeSession(context.Background(), "  "); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	params := PasswordParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	hash, err := HashPassword("bon-mot-de-passe", params)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := VerifyPassword(hash, "bon-mot-de-passe"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "autre"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := VerifyPassword("not-a-hash", "x"); !errors.Is(err, ErrMalformedPasswordHash) {
		t.Fatalf("expected ErrMalformedPasswordHash, got %v", err)
	}
}
