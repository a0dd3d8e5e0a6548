package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	t.Run("valid sqlite config", func(t *testing.T) {
		c := Config{Backend: BackendSQLite, DataDir: "/tmp/data"}
		if err := c.Validate(); err != nil {
			t.Fatalf("expected valid, got %v", err)
		}
	})

	t.Run("empty backend", func(t *testing.T) {
		c := Config{DataDir: "/tmp/data"}
		if err := c.Validate(); !errors.Is(err, ErrBackendEmpty) {
			t.Fatalf("expected ErrBackendEmpty, got %v", err)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		c := Config{Backend: "etcd"}
		if err := c.Validate(); !errors.Is(err, ErrBackendUnknown) {
			t.Fatalf("expected ErrBackendUnknown, got %v", err)
		}
	})

	t.Run("empty data dir is allowed", func(t *testing.T) {
		c := Config{Backend: BackendSQLite}
		if err := c.Validate(); err != nil {
			t.Fatalf("expected valid, got %v", err)
		}
	})
}

func TestStaticIdentity(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		id := StaticIdentity{User: User{ID: "papa", Name: "Papa"}}
		u, err := id.CurrentUser()
		if err != nil {
			t.Fatal(err)
		}
		if u.ID != "papa" {
			t.Fatalf("expected papa, got %q", u.ID)
		}
	})

	t.Run("nobody signed in", func(t *testing.T) {
		var id StaticIdentity
		if _, err := id.CurrentUser(); !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})
}
