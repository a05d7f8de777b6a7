package access

import (
	"errors"
	"regexp"
	"testing"

	"github.com/rampup-app/rampup/internal/store"
)

func newTestGate(t *testing.T) (*Gate, *store.Store) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewGate(s), s
}

func TestGenerateShape(t *testing.T) {
	re := regexp.MustCompile(`^Y3-\d{5}$`)
	for i := 0; i < 50; i++ {
		code := Generate()
		if !re.MatchString(code) {
			t.Fatalf("code %q does not match Y3-XXXXX", code)
		}
	}
}

func TestResolvePrivateAndPublic(t *testing.T) {
	g, s := newTestGate(t)
	s.SetAccessCode("user1", store.CodeKindPrivate, "Y3-11111")
	s.SetAccessCode("user1", store.CodeKindPublic, "Y3-22222")

	grant, err := g.Resolve("Y3-11111")
	if err != nil {
		t.Fatal(err)
	}
	if grant.Scope != "user1" || !grant.CanEdit {
		t.Fatalf("private grant: %+v", grant)
	}

	grant, err = g.Resolve("Y3-22222")
	if err != nil {
		t.Fatal(err)
	}
	if grant.Scope != "user1" || grant.CanEdit {
		t.Fatalf("public grant: %+v", grant)
	}
}

func TestResolveUnknown(t *testing.T) {
	g, _ := newTestGate(t)
	if _, err := g.Resolve("Y3-99999"); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("expected ErrUnknownCode, got %v", err)
	}
	if _, err := g.Resolve(""); !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("empty code: expected ErrUnknownCode, got %v", err)
	}
}

func TestRequireEditRejectsPublic(t *testing.T) {
	g, s := newTestGate(t)
	s.SetAccessCode("user1", store.CodeKindPublic, "Y3-22222")

	if _, err := g.RequireEdit("Y3-22222"); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestRequireEditAllowsPrivate(t *testing.T) {
	g, s := newTestGate(t)
	s.SetAccessCode("user1", store.CodeKindPrivate, "Y3-11111")

	grant, err := g.RequireEdit("Y3-11111")
	if err != nil {
		t.Fatal(err)
	}
	if !grant.CanEdit {
		t.Fatal("private grant should carry edit rights")
	}
}

func TestRotateInvalidatesOldCode(t *testing.T) {
	g, s := newTestGate(t)
	s.SetAccessCode("user1", store.CodeKindPublic, "Y3-22222")

	newCode, err := g.Rotate("user1", store.CodeKindPublic)
	if err != nil {
		t.Fatal(err)
	}
	if newCode == "Y3-22222" {
		t.Skip("random collision with old code")
	}

	if _, err := g.Resolve("Y3-22222"); !errors.Is(err, ErrUnknownCode) {
		t.Fatal("rotated-away code should stop resolving")
	}
	grant, err := g.Resolve(newCode)
	if err != nil {
		t.Fatal(err)
	}
	if grant.Scope != "user1" {
		t.Fatalf("rotated code grant: %+v", grant)
	}
}
