package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "ana@example.com", "Ana", "ADMIN", []string{"sale:create"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != id {
		t.Errorf("UserID = %s, want %s", claims.UserID, id)
	}
	if claims.RoleCode != "ADMIN" || len(claims.Privileges) != 1 {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken(uuid.New(), "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("two", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("s", time.Hour)
	m.ttl = -time.Minute
	token, err := m.GenerateToken(uuid.New(), "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestEmptySecretAndToken(t *testing.T) {
	m := NewManager("", time.Hour)
	if _, err := m.GenerateToken(uuid.New(), "", "", "", nil); !errors.Is(err, ErrNoSecret) {
		t.Errorf("err = %v, want ErrNoSecret", err)
	}
	if _, err := m.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}
