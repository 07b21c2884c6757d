package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/wheatondebate/briefdex/internal/config"
	"github.com/wheatondebate/briefdex/internal/services"
)

var (
	pipelineInstance *services.Pipeline
	once             sync.Once
	initErr          error
)

func init() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Scheduler events route here; the event payload carries no arguments.
	functions.CloudEvent("RebuildIndexedBriefs", rebuildIndexedBriefs)
}

// main is required by the Go Functions Framework.
func main() {}

// rebuildIndexedBriefs runs the full pipeline once per triggering event.
func rebuildIndexedBriefs(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		var cfg *config.Config
		cfg, initErr = config.Load()
		if initErr != nil {
			return
		}
		pipelineInstance, _, initErr = services.NewFromConfig(context.Background(), cfg, slog.Default())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	slog.Info("Rebuild triggered.", "eventId", e.ID(), "eventType", e.Type())
	return pipelineInstance.Run(ctx)
}
