package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/catalogstore"
	"github.com/moarster/yms-react-sub001/internal/httpapi"
	"github.com/moarster/yms-react-sub001/internal/obs"
	"github.com/moarster/yms-react-sub001/internal/rfp"
	"github.com/moarster/yms-react-sub001/internal/schema"
	"github.com/moarster/yms-react-sub001/internal/store/pg"
	"github.com/moarster/yms-react-sub001/internal/stream"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("PORTAL_COMMIT"))

	if err := auth.EnsureSecret(); err != nil {
		log.Fatalf("config: %v", err)
	}

	events := stream.New()

	var (
		rfps     rfp.Service
		catalogs catalogstore.Store
		probe    httpapi.ReadyProbe
	)
	if dsn := os.Getenv("PORTAL_PG_DSN"); dsn != "" {
		store, err := pg.Open(dsn, events)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		rfps = store
		catalogs = pg.NewCatalogStore(store.DB())
		probe = httpapi.ReadyProbe{DB: store.DB()}
	} else {
		rfps = rfp.NewInMemory(events)
		catalogs = catalogstore.NewMemorySeeded()
	}

	resolver, err := catalog.NewResolver(catalogstore.NewFetcher(catalogs))
	if err != nil {
		log.Fatalf("resolver: %v", err)
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		log.Fatalf("schema registry: %v", err)
	}

	api := httpapi.New(rfps, catalogs, resolver, registry, events, probe, version)

	addr := os.Getenv("PORTAL_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting carrier-portal %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
