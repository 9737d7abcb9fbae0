package user

import (
	"testing"
)

func TestRegister_HashesPassword(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(User{Name: "Ada", Email: "ada@example.com", Password: "secret", Role: RoleBuyer})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected an assigned id")
	}
	if created.Password == "secret" {
		t.Error("password stored in plain text")
	}

	if _, err := svc.Authenticate("ada@example.com", "secret"); err != nil {
		t.Errorf("authenticate with correct password: %v", err)
	}
	if _, err := svc.Authenticate("ada@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "secret"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	if _, err := svc.Register(User{Name: "A", Email: "dup@example.com", Password: "x", Role: RoleBuyer}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(User{Name: "B", Email: "dup@example.com", Password: "y", Role: RoleSeller}); err != ErrEmailExists {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"buyer", RoleBuyer, true},
		{"seller", RoleSeller, true},
		{"rider", RoleRider, true},
		{"admin", RoleAdmin, true},
		{"user", RoleBuyer, true},
		{"", "", false},
		{"pilot", "", false},
	}

	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
