package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rcandido/listou/internal/auth"
	"github.com/rcandido/listou/internal/backup"
	"github.com/rcandido/listou/internal/handler"
	"github.com/rcandido/listou/internal/middleware"
	"github.com/rcandido/listou/internal/push"
	"github.com/rcandido/listou/internal/store"
	ws "github.com/rcandido/listou/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	authH         *handler.AuthHandler
	listaH        *handler.ListaHandler
	pushH         *handler.PushHandler
	listaStore    *store.ListaStore
	tokens        *auth.TokenService
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, jwtSecret string, backupCfg backup.Config, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	listaStore := store.NewListaStore(db)
	pushStore := store.NewPushStore(db)

	tokens := auth.NewTokenService(jwtSecret)

	var pushH *handler.PushHandler
	var notifier *push.Notifier
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc := push.NewService(pushCfg)
		pushLogger := logger.With("component", "push")
		notifier = push.NewNotifier(pushSvc, pushStore, pushLogger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, pushLogger)
	}

	backupMgr := backup.NewManager(backupCfg, db, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, tokens, logger.With("component", "auth")),
		listaH:        handler.NewListaHandler(listaStore, hub, notifier, logger.With("component", "lista")),
		pushH:         pushH,
		listaStore:    listaStore,
		tokens:        tokens,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes wrapped with the bearer-token middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /listas", s.listaH.List)
	mux.HandleFunc("POST /listas", s.listaH.Create)
	mux.HandleFunc("GET /listas/{id}", s.listaH.Get)
	mux.HandleFunc("PUT /listas/{id}", s.listaH.Update)
	mux.HandleFunc("DELETE /listas/{id}", s.listaH.Delete)

	mux.HandleFunc("POST /listas/{id}/itens", s.listaH.AddItem)
	mux.HandleFunc("PUT /listas/{id}/itens/{itemId}", s.listaH.UpdateItem)
	mux.HandleFunc("DELETE /listas/{id}/itens/{itemId}", s.listaH.DeleteItem)

	mux.HandleFunc("GET /sugestoes/categoria", s.listaH.SuggestCategoria)

	mux.HandleFunc("POST /listas/{id}/categorias", s.listaH.AddCategoria)
	mux.HandleFunc("PUT /listas/{id}/categorias/{catId}", s.listaH.UpdateCategoria)
	mux.HandleFunc("DELETE /listas/{id}/categorias/{catId}", s.listaH.DeleteCategoria)

	mux.HandleFunc("POST /listas/{id}/categorias/{catId}/itens", s.listaH.AddItemInCategoria)
	mux.HandleFunc("PUT /listas/{id}/categorias/{catId}/itens/{itemId}", s.listaH.UpdateItemInCategoria)
	mux.HandleFunc("DELETE /listas/{id}/categorias/{catId}/itens/{itemId}", s.listaH.DeleteItemInCategoria)

	if s.pushH != nil {
		mux.HandleFunc("POST /push/subscriptions", s.pushH.Subscribe)
		mux.HandleFunc("GET /push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("DELETE /push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /push/vapid-key", s.pushH.GetVAPIDKey)
	}

	// WebSocket. Joining a lista channel re-checks ownership so a stale or
	// foreign lista id cannot be observed.
	wsLogger := s.logger.With("component", "websocket")
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.authorizeJoin, wsLogger))
}

func (s *Server) authorizeJoin(ctx context.Context, userID int64, channel string) bool {
	listaID, ok := ws.ListaIDFromChannel(channel)
	if !ok {
		return false
	}
	l, err := s.listaStore.GetByID(listaID)
	if err != nil {
		s.logger.Error("authorize channel join", "error", err)
		return false
	}
	return l != nil && l.UsuarioID == userID
}
