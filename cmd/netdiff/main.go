// Command netdiff serves the pedestrian-network change detection and
// validation API over a directory of yearly GeoJSON snapshots.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/walkshed-data/netdiff/internal/api"
	"github.com/walkshed-data/netdiff/internal/config"
	"github.com/walkshed-data/netdiff/internal/db"
	"github.com/walkshed-data/netdiff/internal/diff"
	"github.com/walkshed-data/netdiff/internal/store"
	"github.com/walkshed-data/netdiff/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dataDir       = flag.String("data", "data", "GeoJSON data directory")
	dbPath        = flag.String("db", "netdiff.db", "State database path")
	migrationsDir = flag.String("migrations", "migrations", "Migrations directory")
	tuningPath    = flag.String("tuning", "", "Optional tuning config JSON")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	// .env overrides are optional; absence is fine.
	_ = godotenv.Load()
	flag.Parse()

	if *showVersion {
		log.SetFlags(0)
		log.Println("netdiff", version.String())
		return
	}

	if v := os.Getenv("NETDIFF_DATA_DIR"); v != "" && *dataDir == "data" {
		*dataDir = v
	}
	if v := os.Getenv("NETDIFF_DB"); v != "" && *dbPath == "netdiff.db" {
		*dbPath = v
	}

	cfg := config.EmptyTuning()
	if *tuningPath != "" {
		loaded, err := config.LoadTuning(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		cfg = loaded
	}

	database, err := db.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()
	if err := database.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	fileStore := store.NewFileStore(*dataDir)
	session := diff.NewSession(fileStore, cfg, database)
	server := api.NewServer(fileStore, session, database, cfg)

	httpServer := &http.Server{
		Addr:    *listen,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("netdiff %s listening on %s (data: %s)", version.Version, *listen, *dataDir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
