package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rcandido/listou/internal/auth"
	"github.com/rcandido/listou/internal/lista"
	"github.com/rcandido/listou/internal/model"
	"github.com/rcandido/listou/internal/push"
	"github.com/rcandido/listou/internal/store"
	ws "github.com/rcandido/listou/internal/websocket"
)

// ListaHandler owns every mutation on the lista aggregate. Each mutation
// loads the document, checks ownership, applies the nested change, persists
// the whole document, and fans the event out.
type ListaHandler struct {
	listas   *store.ListaStore
	hub      *ws.Hub
	notifier *push.Notifier // nil when push is not configured
	logger   *slog.Logger
}

func NewListaHandler(ls *store.ListaStore, hub *ws.Hub, notifier *push.Notifier, logger *slog.Logger) *ListaHandler {
	return &ListaHandler{listas: ls, hub: hub, notifier: notifier, logger: logger}
}

type nomeRequest struct {
	Nome string `json:"nome"`
}

// --- Lista operations ---

func (h *ListaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	listas, err := h.listas.ListByUsuario(userID)
	if err != nil {
		h.logger.Error("list listas", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list listas")
		return
	}
	if listas == nil {
		listas = []model.Lista{}
	}
	writeJSON(w, http.StatusOK, listas)
}

func (h *ListaHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req nomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	l, err := lista.New(req.Nome, userID)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if err := h.listas.Create(l); err != nil {
		h.logger.Error("create lista", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create lista")
		return
	}

	h.hub.Broadcast(ws.UserChannel(userID), ws.Message{Evento: "lista_nova", Payload: l})
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListaHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListaHandler) Update(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var req nomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := lista.Rename(l, req.Nome); err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.hub.Broadcast(ws.UserChannel(l.UsuarioID), ws.Message{Evento: "lista_atualizada", Payload: l})
	writeJSON(w, http.StatusOK, l)
}

func (h *ListaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	deleted, err := h.listas.Delete(l.ID)
	if err != nil {
		h.logger.Error("delete lista", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete lista")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "lista not found")
		return
	}

	h.hub.Broadcast(ws.UserChannel(l.UsuarioID), ws.Message{
		Evento:  "lista_removida",
		Payload: map[string]string{"listaId": l.ID},
	})
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Lista removida"})
}

// --- Top-level item operations ---

func (h *ListaHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var input lista.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := lista.AddItem(l, input)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItem(l, "item_adicionado", "", item)
	h.notifyItemAdded(l, item)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ListaHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var patch lista.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	item, err := lista.UpdateItem(l, r.PathValue("itemId"), patch)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItem(l, "item_atualizado", "", item)
	writeJSON(w, http.StatusOK, item)
}

func (h *ListaHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	itemID := r.PathValue("itemId")
	if err := lista.DeleteItem(l, itemID); err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItemRemoved(l, "", itemID)
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Item removido"})
}

// --- Categoria operations ---

func (h *ListaHandler) AddCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var req nomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cat, err := lista.AddCategoria(l, req.Nome)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastCategoria(l, "categoria_adicionada", cat)
	writeJSON(w, http.StatusCreated, cat)
}

func (h *ListaHandler) UpdateCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var req nomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	cat, err := lista.RenameCategoria(l, r.PathValue("catId"), req.Nome)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastCategoria(l, "categoria_atualizada", cat)
	writeJSON(w, http.StatusOK, cat)
}

func (h *ListaHandler) DeleteCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	catID := r.PathValue("catId")
	if err := lista.DeleteCategoria(l, catID); err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.hub.Broadcast(ws.ListaChannel(l.ID), ws.Message{
		Evento:  "categoria_removida",
		Payload: map[string]string{"listaId": l.ID, "categoriaId": catID},
	})
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Categoria removida"})
}

// --- Items nested in a categoria ---

func (h *ListaHandler) AddItemInCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var input lista.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	catID := r.PathValue("catId")
	item, err := lista.AddItemToCategoria(l, catID, input)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItem(l, "item_adicionado", catID, item)
	h.notifyItemAdded(l, item)
	writeJSON(w, http.StatusCreated, item)
}

func (h *ListaHandler) UpdateItemInCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	var patch lista.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	catID := r.PathValue("catId")
	item, err := lista.UpdateItemInCategoria(l, catID, r.PathValue("itemId"), patch)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItem(l, "item_atualizado", catID, item)
	writeJSON(w, http.StatusOK, item)
}

func (h *ListaHandler) DeleteItemInCategoria(w http.ResponseWriter, r *http.Request) {
	l, ok := h.load(w, r)
	if !ok {
		return
	}

	catID := r.PathValue("catId")
	itemID := r.PathValue("itemId")
	if err := lista.DeleteItemInCategoria(l, catID, itemID); err != nil {
		h.writeMutationError(w, err)
		return
	}
	if !h.save(w, l) {
		return
	}

	h.broadcastItemRemoved(l, catID, itemID)
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Item removido"})
}

// SuggestCategoria guesses a categoria name for the item name in the query
// string, so the SPA can pre-fill the categoria picker.
func (h *ListaHandler) SuggestCategoria(w http.ResponseWriter, r *http.Request) {
	nome := r.URL.Query().Get("nome")
	writeJSON(w, http.StatusOK, map[string]string{"categoria": lista.SuggestCategoria(nome)})
}

// --- helpers ---

// load fetches the lista from the path id and enforces ownership. On
// failure it writes the error response and returns ok=false.
func (h *ListaHandler) load(w http.ResponseWriter, r *http.Request) (*model.Lista, bool) {
	l, err := h.listas.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get lista", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get lista")
		return nil, false
	}
	if l == nil {
		writeError(w, http.StatusNotFound, "lista not found")
		return nil, false
	}
	if l.UsuarioID != auth.UserID(r.Context()) {
		writeError(w, http.StatusUnauthorized, "not the owner of this lista")
		return nil, false
	}
	return l, true
}

// save persists the whole document. A version conflict means another write
// landed between load and save; the caller's change is rejected, not merged.
func (h *ListaHandler) save(w http.ResponseWriter, l *model.Lista) bool {
	err := h.listas.Save(l)
	if err == nil {
		return true
	}
	if errors.Is(err, store.ErrConflict) {
		writeError(w, http.StatusConflict, "lista was modified concurrently, reload and retry")
		return false
	}
	h.logger.Error("save lista", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to save lista")
	return false
}

func (h *ListaHandler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lista.ErrNomeRequired):
		writeError(w, http.StatusBadRequest, "nome is required")
	case errors.Is(err, lista.ErrCategoriaNotFound):
		writeError(w, http.StatusNotFound, "categoria not found")
	case errors.Is(err, lista.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item not found")
	default:
		h.logger.Error("lista mutation", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *ListaHandler) broadcastItem(l *model.Lista, evento, catID string, item *model.Item) {
	payload := map[string]any{"listaId": l.ID, "item": item}
	if catID != "" {
		payload["categoriaId"] = catID
	}
	h.hub.Broadcast(ws.ListaChannel(l.ID), ws.Message{Evento: evento, Payload: payload})
}

func (h *ListaHandler) broadcastItemRemoved(l *model.Lista, catID, itemID string) {
	payload := map[string]any{"listaId": l.ID, "itemId": itemID}
	if catID != "" {
		payload["categoriaId"] = catID
	}
	h.hub.Broadcast(ws.ListaChannel(l.ID), ws.Message{Evento: "item_removido", Payload: payload})
}

func (h *ListaHandler) broadcastCategoria(l *model.Lista, evento string, cat *model.Categoria) {
	h.hub.Broadcast(ws.ListaChannel(l.ID), ws.Message{
		Evento:  evento,
		Payload: map[string]any{"listaId": l.ID, "categoria": cat},
	})
}

func (h *ListaHandler) notifyItemAdded(l *model.Lista, item *model.Item) {
	if h.notifier == nil {
		return
	}
	go h.notifier.Notify(l.UsuarioID, push.Payload{
		Title: l.Nome,
		Body:  item.Nome + " adicionado",
		URL:   "/lista/" + l.ID,
		Tag:   "lista-" + l.ID,
	})
}
