package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rcandido/listou/internal/database"
	"github.com/rcandido/listou/internal/model"
	"github.com/rcandido/listou/internal/push"
	"github.com/rcandido/listou/internal/store"
)

type pushTestEnv struct {
	mux   *http.ServeMux
	subs  *store.PushStore
	owner *model.Usuario
	other *model.Usuario
}

func setupPushTest(t *testing.T, vapidKey string) *pushTestEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := store.NewUserStore(db)
	owner, err := users.Create("Dona", "dona@example.com", "hash")
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	other, err := users.Create("Outro", "outro@example.com", "hash")
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	subs := store.NewPushStore(db)
	svc := push.NewService(push.Config{VAPIDPublicKey: vapidKey, VAPIDPrivateKey: "priv"})
	h := NewPushHandler(subs, svc, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /push/subscriptions", asUser(owner.ID, h.Subscribe))
	mux.HandleFunc("GET /push/subscriptions", asUser(owner.ID, h.ListSubscriptions))
	mux.HandleFunc("DELETE /push/subscriptions/{id}", asUser(owner.ID, h.Unsubscribe))
	mux.HandleFunc("GET /push/vapid-key", asUser(owner.ID, h.GetVAPIDKey))

	return &pushTestEnv{mux: mux, subs: subs, owner: owner, other: other}
}

func (e *pushTestEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func subscribeBody(endpoint string) map[string]any {
	return map[string]any{
		"endpoint": endpoint,
		"keys":     map[string]string{"p256dh": "p-key", "auth": "a-key"},
	}
}

func TestSubscribeAndList(t *testing.T) {
	env := setupPushTest(t, "pub")

	w := env.do(t, http.MethodPost, "/push/subscriptions", subscribeBody("https://push.example/abc"))
	if w.Code != http.StatusCreated {
		t.Fatalf("subscribe: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/push/subscriptions", nil)
	subs := decode[[]model.PushSubscription](t, w)
	if len(subs) != 1 || subs[0].Endpoint != "https://push.example/abc" {
		t.Fatalf("expected the subscription back, got %+v", subs)
	}
}

func TestSubscribeMissingKeys(t *testing.T) {
	env := setupPushTest(t, "pub")

	w := env.do(t, http.MethodPost, "/push/subscriptions", map[string]any{
		"endpoint": "https://push.example/abc",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUnsubscribe(t *testing.T) {
	env := setupPushTest(t, "pub")

	w := env.do(t, http.MethodPost, "/push/subscriptions", subscribeBody("https://push.example/abc"))
	sub := decode[model.PushSubscription](t, w)

	w = env.do(t, http.MethodDelete, "/push/subscriptions/"+strconv.FormatInt(sub.ID, 10), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unsubscribe: expected 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/push/subscriptions", nil)
	if subs := decode[[]model.PushSubscription](t, w); len(subs) != 0 {
		t.Fatalf("expected no subscriptions, got %+v", subs)
	}
}

func TestUnsubscribeOtherUsers(t *testing.T) {
	env := setupPushTest(t, "pub")

	// Belongs to the other user, created directly through the store.
	sub, err := env.subs.Create(env.other.ID, "https://push.example/other", "p", "a")
	if err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	w := env.do(t, http.MethodDelete, "/push/subscriptions/"+strconv.FormatInt(sub.ID, 10), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign subscription, got %d", w.Code)
	}
}

func TestGetVAPIDKey(t *testing.T) {
	env := setupPushTest(t, "public-key")

	w := env.do(t, http.MethodGet, "/push/vapid-key", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := decode[map[string]string](t, w); resp["publicKey"] != "public-key" {
		t.Errorf("unexpected key response: %v", resp)
	}
}

func TestGetVAPIDKeyUnconfigured(t *testing.T) {
	env := setupPushTest(t, "")

	w := env.do(t, http.MethodGet, "/push/vapid-key", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when push is unconfigured, got %d", w.Code)
	}
}
