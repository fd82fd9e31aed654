package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rcandido/listou/internal/auth"
	"github.com/rcandido/listou/internal/model"
	"github.com/rcandido/listou/internal/push"
	"github.com/rcandido/listou/internal/store"
)

// PushHandler manages web push subscriptions.
type PushHandler struct {
	subs   *store.PushStore
	svc    *push.Service
	logger *slog.Logger
}

func NewPushHandler(subs *store.PushStore, svc *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{subs: subs, svc: svc, logger: logger}
}

// subscribeRequest mirrors the browser PushSubscription.toJSON() shape.
type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.subs.Create(userID, req.Endpoint, req.Keys.P256dh, req.Keys.Auth)
	if err != nil {
		h.logger.Error("create subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid subscription id")
		return
	}

	sub, err := h.subs.GetByID(id)
	if err != nil {
		h.logger.Error("get subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
		return
	}
	if sub == nil || sub.UserID != userID {
		writeError(w, http.StatusNotFound, "subscription not found")
		return
	}

	if err := h.subs.Delete(id); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to unsubscribe")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Inscrição removida"})
}

func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	subs, err := h.subs.ListByUser(userID)
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// GetVAPIDKey hands the public key to the SPA so it can subscribe.
func (h *PushHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	key := h.svc.VAPIDPublicKey()
	if key == "" {
		writeError(w, http.StatusNotFound, "push notifications not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": key})
}
