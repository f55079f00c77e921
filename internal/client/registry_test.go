package client

import (
	"reflect"
	"testing"

	overtureerrors "github.com/thoreinstein/overture/internal/errors"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stdioAdapter("cursor")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, ok := r.Get("cursor"); !ok {
		t.Error("Get() did not find registered adapter")
	}

	a, err := r.Lookup("cursor")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if a.Name() != "cursor" {
		t.Errorf("Lookup() returned adapter %q", a.Name())
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(stdioAdapter("cursor")); err != nil {
		t.Fatal(err)
	}
	err := r.Register(stdioAdapter("cursor"))
	if !overtureerrors.Is(err, ErrAdapterAlreadyRegistered) {
		t.Errorf("error = %v, want ErrAdapterAlreadyRegistered", err)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Lookup("nope")
	if !overtureerrors.Is(err, overtureerrors.ErrUnknownAdapter) {
		t.Errorf("error = %v, want ErrUnknownAdapter", err)
	}
}

func TestRegistry_Installed(t *testing.T) {
	r := NewRegistry()
	desktop := stdioAdapter("claude-desktop")
	desktop.uninstalledOn = "linux"
	for _, a := range []*fakeAdapter{stdioAdapter("cursor"), desktop, stdioAdapter("codex")} {
		if err := r.Register(a); err != nil {
			t.Fatal(err)
		}
	}

	installed := r.Installed("linux")
	if len(installed) != 2 {
		t.Fatalf("Installed(linux) = %d adapters, want 2", len(installed))
	}
	if installed[0].Name() != "cursor" || installed[1].Name() != "codex" {
		t.Errorf("Installed(linux) = [%s, %s], want registration order minus the unaddressable client",
			installed[0].Name(), installed[1].Name())
	}

	if got := len(r.Installed("darwin")); got != 3 {
		t.Errorf("Installed(darwin) = %d adapters, want 3", got)
	}
}

func TestRegistry_OrderPreserved(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(stdioAdapter(name)); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"zeta", "alpha", "mid"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want registration order %v", got, want)
	}

	all := r.All()
	for i, a := range all {
		if a.Name() != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, a.Name(), want[i])
		}
	}
}
