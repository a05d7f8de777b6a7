// Package access implements the shareable-code gate. Codes are
// capability strings, not credentials: whoever holds the private code
// can edit and delete, the public code only reads.
package access

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/rampup-app/rampup/internal/store"
)

var (
	// ErrUnknownCode is returned when a code resolves to no scope.
	ErrUnknownCode = errors.New("unknown access code")
	// ErrReadOnly is returned when a mutation is attempted with a
	// public code. The rejection happens before any store write.
	ErrReadOnly = errors.New("read-only access")
)

// Grant is what a resolved code authorizes.
type Grant struct {
	Scope   string
	CanEdit bool
}

// Gate resolves codes against the store.
type Gate struct {
	store *store.Store
}

func NewGate(s *store.Store) *Gate {
	return &Gate{store: s}
}

// Generate produces a new code in the Y3-XXXXX shape: a fixed prefix
// and five random digits.
func Generate() string {
	return fmt.Sprintf("Y3-%05d", 10000+rand.Intn(90000))
}

// Resolve maps a code string to its grant.
func (g *Gate) Resolve(code string) (Grant, error) {
	if code == "" {
		return Grant{}, ErrUnknownCode
	}
	c, err := g.store.GetAccessCodeByCode(code)
	if err != nil {
		return Grant{}, err
	}
	if c == nil {
		return Grant{}, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}
	return Grant{Scope: c.Scope, CanEdit: c.Kind == store.CodeKindPrivate}, nil
}

// RequireEdit resolves a code and rejects read-only grants.
func (g *Gate) RequireEdit(code string) (Grant, error) {
	grant, err := g.Resolve(code)
	if err != nil {
		return Grant{}, err
	}
	if !grant.CanEdit {
		return Grant{}, fmt.Errorf("%w: scope %s", ErrReadOnly, grant.Scope)
	}
	return grant, nil
}

// Rotate replaces the code of one kind for a scope and returns the new
// code. The previous code stops resolving immediately.
func (g *Gate) Rotate(scope, kind string) (string, error) {
	code := Generate()
	if err := g.store.SetAccessCode(scope, kind, code); err != nil {
		return "", err
	}
	return code, nil
}
