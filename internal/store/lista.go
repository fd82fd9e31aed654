package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcandido/listou/internal/model"
)

// ErrConflict is returned when a save races with another write to the same
// lista: the version the caller loaded is no longer the one on disk.
var ErrConflict = errors.New("lista was modified concurrently")

type ListaStore struct {
	db *sql.DB
}

func NewListaStore(db *sql.DB) *ListaStore {
	return &ListaStore{db: db}
}

// Create inserts a new lista document at version 1.
func (s *ListaStore) Create(l *model.Lista) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal lista: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO listas (id, usuario_id, version, doc) VALUES (?, ?, 1, ?)`,
		l.ID, l.UsuarioID, string(doc),
	)
	if err != nil {
		return fmt.Errorf("insert lista: %w", err)
	}
	l.Version = 1
	return nil
}

// GetByID loads a lista document. Returns nil, nil when the lista does not
// exist.
func (s *ListaStore) GetByID(id string) (*model.Lista, error) {
	row := s.db.QueryRow(`SELECT doc, version FROM listas WHERE id = ?`, id)
	l, err := scanLista(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lista: %w", err)
	}
	return l, nil
}

// ListByUsuario returns all listas owned by the user.
func (s *ListaStore) ListByUsuario(usuarioID int64) ([]model.Lista, error) {
	rows, err := s.db.Query(
		`SELECT doc, version FROM listas WHERE usuario_id = ? ORDER BY created_at ASC`,
		usuarioID,
	)
	if err != nil {
		return nil, fmt.Errorf("list listas: %w", err)
	}
	defer rows.Close()

	var listas []model.Lista
	for rows.Next() {
		l, err := scanLista(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lista: %w", err)
		}
		listas = append(listas, *l)
	}
	return listas, rows.Err()
}

// Save persists the whole document, guarded by the version the caller
// loaded. On success the lista's version is bumped; if another write got
// there first, Save returns ErrConflict and the document is untouched.
func (s *ListaStore) Save(l *model.Lista) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal lista: %w", err)
	}
	result, err := s.db.Exec(
		`UPDATE listas SET doc = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND version = ?`,
		string(doc), l.ID, l.Version,
	)
	if err != nil {
		return fmt.Errorf("update lista: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrConflict
	}
	l.Version++
	return nil
}

// Delete removes the lista document, and with it every embedded categoria
// and item. Returns false when the lista does not exist.
func (s *ListaStore) Delete(id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM listas WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete lista: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanLista(scanner interface{ Scan(...any) error }) (*model.Lista, error) {
	var doc string
	var version int64
	if err := scanner.Scan(&doc, &version); err != nil {
		return nil, err
	}
	var l model.Lista
	if err := json.Unmarshal([]byte(doc), &l); err != nil {
		return nil, fmt.Errorf("unmarshal lista doc: %w", err)
	}
	l.Version = version
	if l.Itens == nil {
		l.Itens = []model.Item{}
	}
	if l.Categorias == nil {
		l.Categorias = []model.Categoria{}
	}
	return &l, nil
}
