package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formengine/components/optionsource"
	"github.com/goliatone/go-formengine/internal/mockapi"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "listen address")
	formsPath := flag.String("forms", "", "forms catalogue JSON (embedded sample if empty)")
	optionsPath := flag.String("options", "", "dependent-option catalogue YAML (embedded sample if empty)")
	flag.Parse()

	var opts []mockapi.Option
	if *formsPath != "" {
		raw, err := os.ReadFile(*formsPath)
		if err != nil {
			log.Fatalf("Failed to read forms: %v", err)
		}
		opts = append(opts, mockapi.WithForms(raw))
	}
	if *optionsPath != "" {
		f, err := os.Open(*optionsPath)
		if err != nil {
			log.Fatalf("Failed to open options: %v", err)
		}
		cat, err := optionsource.LoadCatalogue(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to load options: %v", err)
		}
		opts = append(opts, mockapi.WithOptionCatalogue(cat))
	}

	api, err := mockapi.New(opts...)
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}
	handler, err := api.Handler()
	if err != nil {
		log.Fatalf("Failed to build routes: %v", err)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("mock forms API listening on http://%s", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}
