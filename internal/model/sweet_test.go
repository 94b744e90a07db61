package model

import "testing"

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false for an enum member", c)
		}
	}

	for _, c := range []string{"", "pastry", "Chocolate", "CANDY", "chocolate "} {
		if ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = true, want false", c)
		}
	}
}

func TestUserIsAdmin(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	if !admin.IsAdmin() {
		t.Error("IsAdmin() = false for an admin")
	}

	for _, role := range []string{RoleUser, "", "ADMIN"} {
		u := &User{Role: role}
		if u.IsAdmin() {
			t.Errorf("IsAdmin() = true for role %q", role)
		}
	}
}
