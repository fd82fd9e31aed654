package lista

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/rcandido/listou/internal/model"
)

var (
	ErrNomeRequired      = errors.New("nome is required")
	ErrItemNotFound      = errors.New("item not found")
	ErrCategoriaNotFound = errors.New("categoria not found")
)

const defaultQuantidade = 1.0

// ItemInput carries the fields accepted when creating an item. Quantidade,
// Preco and Checked are pointers so an omitted JSON field is distinguishable
// from an explicit zero.
type ItemInput struct {
	Nome       string   `json:"nome"`
	Quantidade *float64 `json:"quantidade"`
	Preco      *float64 `json:"preco"`
	Checked    *bool    `json:"checked"`
}

// ItemPatch carries a partial item update. A nil field keeps the existing
// value; a present field overwrites it, including with zero.
type ItemPatch struct {
	Nome       *string  `json:"nome"`
	Quantidade *float64 `json:"quantidade"`
	Preco      *float64 `json:"preco"`
	Checked    *bool    `json:"checked"`
}

// New creates an empty lista owned by the given user.
func New(nome string, usuarioID int64) (*model.Lista, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrNomeRequired
	}
	return &model.Lista{
		ID:         uuid.NewString(),
		Nome:       nome,
		UsuarioID:  usuarioID,
		Itens:      []model.Item{},
		Categorias: []model.Categoria{},
	}, nil
}

// Rename sets the lista's display name.
func Rename(l *model.Lista, nome string) error {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return ErrNomeRequired
	}
	l.Nome = nome
	return nil
}

// AddItem appends a new item to the lista's top-level sequence.
func AddItem(l *model.Lista, input ItemInput) (*model.Item, error) {
	item, err := newItem(input)
	if err != nil {
		return nil, err
	}
	l.Itens = append(l.Itens, *item)
	return &l.Itens[len(l.Itens)-1], nil
}

// UpdateItem merges the patch into a top-level item. Total is recomputed
// whenever quantidade or preco is present in the patch.
func UpdateItem(l *model.Lista, itemID string, patch ItemPatch) (*model.Item, error) {
	i := findItem(l.Itens, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	if err := applyPatch(&l.Itens[i], patch); err != nil {
		return nil, err
	}
	return &l.Itens[i], nil
}

// DeleteItem removes a top-level item.
func DeleteItem(l *model.Lista, itemID string) error {
	i := findItem(l.Itens, itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	l.Itens = append(l.Itens[:i], l.Itens[i+1:]...)
	return nil
}

// AddCategoria appends an empty categoria.
func AddCategoria(l *model.Lista, nome string) (*model.Categoria, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrNomeRequired
	}
	l.Categorias = append(l.Categorias, model.Categoria{
		ID:    uuid.NewString(),
		Nome:  nome,
		Itens: []model.Item{},
	})
	return &l.Categorias[len(l.Categorias)-1], nil
}

// RenameCategoria sets a categoria's display name.
func RenameCategoria(l *model.Lista, catID, nome string) (*model.Categoria, error) {
	c := findCategoria(l, catID)
	if c == nil {
		return nil, ErrCategoriaNotFound
	}
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return nil, ErrNomeRequired
	}
	c.Nome = nome
	return c, nil
}

// DeleteCategoria removes a categoria and every item nested in it.
func DeleteCategoria(l *model.Lista, catID string) error {
	for i := range l.Categorias {
		if l.Categorias[i].ID == catID {
			l.Categorias = append(l.Categorias[:i], l.Categorias[i+1:]...)
			return nil
		}
	}
	return ErrCategoriaNotFound
}

// AddItemToCategoria appends a new item to the categoria's sequence.
func AddItemToCategoria(l *model.Lista, catID string, input ItemInput) (*model.Item, error) {
	c := findCategoria(l, catID)
	if c == nil {
		return nil, ErrCategoriaNotFound
	}
	item, err := newItem(input)
	if err != nil {
		return nil, err
	}
	c.Itens = append(c.Itens, *item)
	return &c.Itens[len(c.Itens)-1], nil
}

// UpdateItemInCategoria merges the patch into an item scoped to the categoria.
func UpdateItemInCategoria(l *model.Lista, catID, itemID string, patch ItemPatch) (*model.Item, error) {
	c := findCategoria(l, catID)
	if c == nil {
		return nil, ErrCategoriaNotFound
	}
	i := findItem(c.Itens, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	if err := applyPatch(&c.Itens[i], patch); err != nil {
		return nil, err
	}
	return &c.Itens[i], nil
}

// DeleteItemInCategoria removes an item from the categoria.
func DeleteItemInCategoria(l *model.Lista, catID, itemID string) error {
	c := findCategoria(l, catID)
	if c == nil {
		return ErrCategoriaNotFound
	}
	i := findItem(c.Itens, itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	c.Itens = append(c.Itens[:i], c.Itens[i+1:]...)
	return nil
}

func newItem(input ItemInput) (*model.Item, error) {
	nome := strings.TrimSpace(input.Nome)
	if nome == "" {
		return nil, ErrNomeRequired
	}
	item := model.Item{
		ID:         uuid.NewString(),
		Nome:       nome,
		Quantidade: defaultQuantidade,
	}
	if input.Quantidade != nil {
		item.Quantidade = *input.Quantidade
	}
	if input.Preco != nil {
		item.Preco = *input.Preco
	}
	if input.Checked != nil {
		item.Checked = *input.Checked
	}
	item.Total = item.Quantidade * item.Preco
	return &item, nil
}

func applyPatch(item *model.Item, patch ItemPatch) error {
	if patch.Nome != nil {
		nome := strings.TrimSpace(*patch.Nome)
		if nome == "" {
			return ErrNomeRequired
		}
		item.Nome = nome
	}
	if patch.Quantidade != nil {
		item.Quantidade = *patch.Quantidade
	}
	if patch.Preco != nil {
		item.Preco = *patch.Preco
	}
	if patch.Checked != nil {
		item.Checked = *patch.Checked
	}
	item.Total = item.Quantidade * item.Preco
	return nil
}

func findItem(items []model.Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func findCategoria(l *model.Lista, id string) *model.Categoria {
	for i := range l.Categorias {
		if l.Categorias[i].ID == id {
			return &l.Categorias[i]
		}
	}
	return nil
}
