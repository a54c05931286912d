package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inkwell/inkwell/canvas-go/internal/asset"
	"github.com/inkwell/inkwell/canvas-go/internal/canvas"
	"github.com/inkwell/inkwell/canvas-go/internal/config"
	"github.com/inkwell/inkwell/canvas-go/internal/gallery"
	"github.com/inkwell/inkwell/canvas-go/internal/live"
	mw "github.com/inkwell/inkwell/canvas-go/internal/middleware"
	"github.com/inkwell/inkwell/canvas-go/internal/persist"
	"github.com/inkwell/inkwell/canvas-go/internal/store"
)

// The playground gallery is seeded with a sample canvas on first boot so the
// editor has something to open without an account.
const playgroundGalleryID = "gal_playground"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	if err := seedPlayground(ctx, st); err != nil {
		slog.Error("seed playground gallery", "error", err)
		os.Exit(1)
	}

	hub := live.NewHub()
	go hub.Run()

	galleryService := gallery.NewService(st)
	galleryHandler := gallery.NewHandler(galleryService, hub)
	assetHandler := asset.NewHandler(cfg.AssetDir)

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints: the image-upload collaborator.
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Canvas endpoints: the persistence collaborator.
	r.HandleFunc("/galleries/{galleryId}/canvas", galleryHandler.Load).Methods("GET")
	r.HandleFunc("/galleries/{galleryId}/canvas", galleryHandler.Save).Methods("PUT", "OPTIONS")

	// Live canvas feed for viewers.
	r.HandleFunc("/ws/gallery/{galleryId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

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

// seedPlayground writes the sample canvas as version 1 of the playground
// gallery when no snapshot exists yet.
func seedPlayground(ctx context.Context, st *store.Store) error {
	_, _, err := st.LoadCanvas(ctx, playgroundGalleryID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	raw, err := persist.Serialize(canvas.NewSampleDocument())
	if err != nil {
		return err
	}
	_, err = st.SaveCanvas(ctx, playgroundGalleryID, raw)
	return err
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *live.Hub) {
	galleryID := mux.Vars(r)["galleryId"]

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:5173", "localhost:3000"},
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := live.NewClient(hub, conn, galleryID, uuid.New().String())
	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
