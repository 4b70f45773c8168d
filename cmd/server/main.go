package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"movie-quiz/config"
	"movie-quiz/internal/game"
	apphttp "movie-quiz/internal/http"
	"movie-quiz/internal/playback/cv"
	"movie-quiz/internal/quiz"
	"movie-quiz/pkg/websocket"
	"movie-quiz/web"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
	cfg := config.Load()
	log.Println("Configuration loaded")

	repo := quiz.NewRepository(cfg.Store.QuizFile)
	if err := repo.Load(); err != nil {
		var loadErr *quiz.StoreLoadError
		if !errors.As(err, &loadErr) {
			log.Fatalf("Failed to read quiz store: %v", err)
		}
		log.Printf("Warning: %v; starting with an empty store", err)
		moved, qerr := repo.QuarantineCorrupt()
		if qerr != nil {
			log.Fatalf("Failed to move unreadable quiz store aside: %v", qerr)
		}
		log.Printf("Unreadable quiz store moved to %s", moved)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize WebSocket hub
	wsHub := websocket.NewHub(cfg.Playback.JPEGQuality, apphttp.OriginAllowed(cfg.Server.AllowedOrigins))
	go wsHub.Run()

	app := game.New(game.Deps{
		Config:    cfg,
		Repo:      repo,
		Importer:  quiz.NewImporter(cfg.Store.MediaDir),
		Decoder:   cv.NewDecoder(cfg.Playback.FrameWidth, cfg.Playback.FrameHeight),
		Presenter: wsHub,
		Quit:      stop,
	})
	wsHub.SetDispatcher(app)

	appDone := make(chan struct{})
	go func() {
		defer close(appDone)
		_ = app.Run(ctx)
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apphttp.WithCORS(apphttp.NewRouter(web.Files, wsHub.HandleWebSocket), cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s; open http://%s in a browser", cfg.Server.Addr, cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down")
	case err := <-errCh:
		log.Printf("Failed to start server: %v", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		_ = srv.Close()
	}
	wsHub.Close()
	<-appDone

	log.Println("Server shutdown gracefully")
}
