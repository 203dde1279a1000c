package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/mbellotti/chatroom-api/internal/config"
	"github.com/mbellotti/chatroom-api/internal/database"
	"github.com/mbellotti/chatroom-api/internal/stats"
)

const (
	totalRequestsMetric  = "TotalRequests"
	activeRequestsMetric = "ActiveRequests"
)

type ChatApp struct {
	log        *log.Logger
	db         database.ChatRepository
	mux        *http.Server
	stats      stats.StatsProvider
	signingKey []byte
	tokenTTL   time.Duration
}

func NewChatApp(mux *http.ServeMux, logger *log.Logger, db database.ChatRepository, statsProvider stats.StatsProvider, cfg *config.Config) *ChatApp {
	s := &ChatApp{
		log:        logger,
		db:         db,
		stats:      statsProvider,
		signingKey: cfg.SigningKey,
		tokenTTL:   cfg.TokenTTL,
	}

	mux.HandleFunc("GET /healthz", s.healthCheck)
	mux.HandleFunc("POST /register", s.createAccount)
	mux.HandleFunc("POST /token", s.token)
	mux.Handle("GET /users/me", s.authMiddleware(s.me))
	mux.Handle("POST /chatrooms", s.authMiddleware(s.createChatroom))
	mux.Handle("GET /chatrooms", s.authMiddleware(s.listChatrooms))
	mux.Handle("POST /chatrooms/{id}/messages", s.authMiddleware(s.createMessage))
	mux.Handle("GET /chatrooms/{id}/messages", s.authMiddleware(s.listMessages))
	mux.Handle("DELETE /chatrooms/{id}", s.authMiddleware(s.deleteChatroom))

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
	)(mux)

	if statsProvider != nil {
		statsProvider.RegisterMetric(totalRequestsMetric)
		statsProvider.RegisterMetric(activeRequestsMetric)
		h = s.statsMiddleware(h)
	}

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *ChatApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *ChatApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
