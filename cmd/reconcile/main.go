// Command reconcile runs one seed reconciliation against the configured store
// and prints the result. It is the same pass the API runs at startup.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/samirrijal/campusmap/internal/app"
	"github.com/samirrijal/campusmap/internal/pkg/config"
	"github.com/samirrijal/campusmap/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("campusmap-reconcile")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slots, closeSlots, err := app.OpenSlots(ctx, cfg)
	if err != nil {
		log.Fatalf("store %s: %v", cfg.Store.Backend, err)
	}
	defer closeSlots()

	events := app.OpenEvents(cfg)
	defer events.Close()

	places, err := app.NewPlaceService(cfg, slots, events)
	if err != nil {
		log.Fatalf("place service: %v", err)
	}

	result, err := places.Launch(ctx)
	if err != nil {
		log.Fatalf("reconcile: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
