package store

import "testing"

func TestUserCreateAndLookup(t *testing.T) {
	_, us, _ := setupTestDB(t)

	u, err := us.Create("Ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected assigned id")
	}

	byEmail, err := us.GetByEmail("ana@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Fatalf("get by email = %+v, want id %d", byEmail, u.ID)
	}
	if byEmail.SenhaHash != "hash" {
		t.Errorf("senha hash = %q, want %q", byEmail.SenhaHash, "hash")
	}

	missing, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for missing user")
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	_, us, _ := setupTestDB(t)

	if _, err := us.Create("Ana", "ana@example.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("Outra", "ana@example.com", "hash2"); err == nil {
		t.Fatal("expected unique constraint error on duplicate email")
	}
}
