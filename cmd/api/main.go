package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"fitlab/internal/geminiservice"
	"fitlab/internal/knowledge"
	"fitlab/internal/server"
	"fitlab/internal/storage"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// The Gemini client fails fast on a missing API key; there is nothing the
	// experiments can do without it.
	gen, err := geminiservice.NewClient()
	if err != nil {
		log.Fatalf("Fatal error: could not initialize Gemini client: %v", err)
	}

	datasetsDir := os.Getenv("FITLAB_DATASETS_DIR")
	if datasetsDir == "" {
		datasetsDir = "datasets"
	}
	kb, err := knowledge.Load(datasetsDir)
	if err != nil {
		log.Fatalf("Fatal error: could not load knowledge base: %v", err)
	}

	store, err := storage.NewService()
	if err != nil {
		log.Fatalf("Fatal error: could not open session store: %v", err)
	}
	defer store.Close()

	apiServer := server.NewServer(gen, kb, store)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, done)

	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}
