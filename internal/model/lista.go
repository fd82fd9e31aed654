package model

// Item is a purchasable line entry. Total is derived from Quantidade and
// Preco and is recomputed on every mutation that touches either.
type Item struct {
	ID         string  `json:"id"`
	Nome       string  `json:"nome"`
	Quantidade float64 `json:"quantidade"`
	Preco      float64 `json:"preco"`
	Total      float64 `json:"total"`
	Checked    bool    `json:"checked"`
}

// Categoria is a named grouping of items. It exists only nested inside a
// Lista and has no lifecycle of its own.
type Categoria struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Itens []Item `json:"itens"`
}

// Lista is the shopping-list aggregate. The whole aggregate is the unit of
// storage: every mutation rewrites the full document. Version is the
// optimistic-concurrency counter maintained by the store, not part of the
// serialized document.
type Lista struct {
	ID         string      `json:"id"`
	Nome       string      `json:"nome"`
	UsuarioID  int64       `json:"usuarioId"`
	Itens      []Item      `json:"itens"`
	Categorias []Categoria `json:"categorias"`
	Version    int64       `json:"-"`
}
