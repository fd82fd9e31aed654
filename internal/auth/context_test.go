package auth

import (
	"context"
	"testing"
)

func TestAuthContextRoundTrip(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: 7, Nome: "Ana"})

	ac, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected auth context")
	}
	if ac.UserID != 7 || ac.Nome != "Ana" {
		t.Errorf("auth context = %+v", ac)
	}
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestAuthContextMissing(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("expected no auth context on bare context")
	}
	if UserID(context.Background()) != 0 {
		t.Error("expected zero user id on bare context")
	}
}
