package push

import (
	"errors"
	"log/slog"

	"github.com/rcandido/listou/internal/model"
	"github.com/rcandido/listou/internal/store"
)

// sender is the part of Service the notifier needs, split out for tests.
type sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// Notifier fans a notification out to every device a user has registered.
// Expired subscriptions are pruned as they are discovered.
type Notifier struct {
	svc    sender
	subs   *store.PushStore
	logger *slog.Logger
}

func NewNotifier(svc *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{svc: svc, subs: subs, logger: logger}
}

// Notify sends the payload to all of the user's subscriptions. Failures are
// logged, never surfaced: push is best-effort and must not fail the mutation
// that triggered it.
func (n *Notifier) Notify(userID int64, payload Payload) {
	subs, err := n.subs.ListByUser(userID)
	if err != nil {
		n.logger.Error("list push subscriptions", "error", err, "user_id", userID)
		return
	}

	for i := range subs {
		sub := subs[i]
		err := n.svc.Send(&sub, payload)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrExpired) {
			if err := n.subs.Delete(sub.ID); err != nil {
				n.logger.Error("prune expired subscription", "error", err, "id", sub.ID)
			}
			continue
		}
		n.logger.Warn("send push", "error", err, "id", sub.ID)
	}
}
