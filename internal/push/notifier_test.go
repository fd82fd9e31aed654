package push

import (
	"log/slog"
	"testing"

	"github.com/rcandido/listou/internal/database"
	"github.com/rcandido/listou/internal/model"
	"github.com/rcandido/listou/internal/store"
)

type fakeSender struct {
	sent []string
	errs map[string]error
}

func (f *fakeSender) Send(sub *model.PushSubscription, payload Payload) error {
	f.sent = append(f.sent, sub.Endpoint)
	return f.errs[sub.Endpoint]
}

func setupNotifierTest(t *testing.T) (*store.PushStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	user, err := store.NewUserStore(db).Create("Ana", "ana@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return store.NewPushStore(db), user.ID
}

func TestNotifySendsToAllDevices(t *testing.T) {
	subs, userID := setupNotifierTest(t)
	for _, ep := range []string{"https://push.example/a", "https://push.example/b"} {
		if _, err := subs.Create(userID, ep, "p", "a"); err != nil {
			t.Fatalf("create subscription: %v", err)
		}
	}

	sender := &fakeSender{}
	n := &Notifier{svc: sender, subs: subs, logger: slog.Default()}
	n.Notify(userID, Payload{Title: "Mercado", Body: "Leite adicionado"})

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.sent))
	}
}

func TestNotifyPrunesExpired(t *testing.T) {
	subs, userID := setupNotifierTest(t)
	if _, err := subs.Create(userID, "https://push.example/gone", "p", "a"); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
	if _, err := subs.Create(userID, "https://push.example/live", "p", "a"); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	sender := &fakeSender{errs: map[string]error{"https://push.example/gone": ErrExpired}}
	n := &Notifier{svc: sender, subs: subs, logger: slog.Default()}
	n.Notify(userID, Payload{Title: "Mercado"})

	remaining, err := subs.ListByUser(userID)
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Endpoint != "https://push.example/live" {
		t.Fatalf("remaining = %+v, want only the live endpoint", remaining)
	}
}
