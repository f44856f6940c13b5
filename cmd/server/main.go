package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/quillboard/quillboard/backend-go/internal/auth"
	"github.com/quillboard/quillboard/backend-go/internal/board"
	"github.com/quillboard/quillboard/backend-go/internal/config"
	"github.com/quillboard/quillboard/backend-go/internal/db"
	"github.com/quillboard/quillboard/backend-go/internal/document"
	"github.com/quillboard/quillboard/backend-go/internal/export"
	mw "github.com/quillboard/quillboard/backend-go/internal/middleware"
	syncws "github.com/quillboard/quillboard/backend-go/internal/sync"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := db.NewStore(pool)

	authService := auth.NewService(store, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	boardService := board.NewService(store)
	boardHandler := board.NewHandler(boardService)

	exportHandler := export.NewHandler(boardService)

	origins := splitOrigins(cfg.AllowedOrigins)
	mw.AllowedOrigins = origins

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/boards", boardHandler.List).Methods("GET")
	api.HandleFunc("/boards", boardHandler.Create).Methods("POST")
	api.HandleFunc("/boards/{boardId}", boardHandler.Get).Methods("GET")
	api.HandleFunc("/boards/{boardId}", boardHandler.Save).Methods("PUT")
	api.HandleFunc("/boards/{boardId}", boardHandler.Delete).Methods("DELETE")
	api.HandleFunc("/boards/{boardId}/name", boardHandler.Rename).Methods("PATCH")
	api.HandleFunc("/boards/{boardId}/export/pdf", exportHandler.ExportPDF).Methods("GET")

	// WebSocket autosave endpoint
	r.HandleFunc("/ws/board/{boardId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, authService, boardService, cfg.AutosaveInterval, wsOriginPatterns(origins))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, authSvc *auth.Service, boards *board.Service, interval time.Duration, originPatterns []string) {
	boardID := mux.Vars(r)["boardId"]

	// Auth via query param; browsers cannot set headers on websockets
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	userID, err := authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Ownership check, and note whether the stored board has content so
	// the session can reject a suspicious empty overwrite.
	b, err := boards.Get(r.Context(), boardID, userID)
	if err != nil {
		switch {
		case errors.Is(err, board.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
			http.Error(w, "board not found", http.StatusNotFound)
		case errors.Is(err, board.ErrForbidden):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			slog.Error("load board for websocket", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	hadContent := false
	var doc document.Document
	if err := json.Unmarshal(b.Document, &doc); err == nil {
		hadContent = len(doc.Strokes) > 0 || len(doc.Texts) > 0
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	session := syncws.NewSession(conn, boards, boardID, userID, interval, hadContent)

	ctx := r.Context()
	go session.WritePump(ctx)
	session.ReadPump(ctx)
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// wsOriginPatterns strips schemes: websocket.AcceptOptions matches on
// host patterns, not full origins.
func wsOriginPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		out = append(out, o)
	}
	return out
}
