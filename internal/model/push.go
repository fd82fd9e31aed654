package model

import "time"

// PushSubscription is a browser push endpoint registered by one of the
// user's devices.
type PushSubscription struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"-"`
	AuthKey   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
