package model

import "time"

type Usuario struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	SenhaHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
