package cmd

import (
	"fmt"

	adapterenrich "github.com/petekp/sessiontrack/internal/adapters/enrich"
	adapterprocess "github.com/petekp/sessiontrack/internal/adapters/process"
	adapterrelay "github.com/petekp/sessiontrack/internal/adapters/relay"
	adapterstorage "github.com/petekp/sessiontrack/internal/adapters/storage"
	"github.com/petekp/sessiontrack/internal/aggregator"
	"github.com/petekp/sessiontrack/internal/config"
	"github.com/petekp/sessiontrack/internal/liveness"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/internal/paths"
	"github.com/petekp/sessiontrack/internal/ports"
	"github.com/petekp/sessiontrack/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	Aggregator *aggregator.Aggregator
	Enricher   ports.Enricher
	Inspector  ports.ProcessInspector
	Journal    ports.EventJournal
	Liveness   *liveness.Manager
	Settings   *config.Settings
	Store      ports.StateStore
	Tracker    *services.Tracker
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	if settings == nil {
		settings = &config.Settings{}
	}

	store := adapterstorage.NewFileStore(paths.StorePath())
	inspector := adapterprocess.NewInspector()
	manager := liveness.NewManager(paths.LiveDir(), inspector, liveness.SelfSpawn)

	// The journal is optional diagnostics; leave it nil unless enabled
	var journal ports.EventJournal
	if settings.JournalEnabled() {
		j, err := adapterstorage.NewSQLiteJournal(paths.JournalPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open event journal: %w", err)
		}
		journal = j
	}

	// Publishing only exists when a relay URL is configured
	var agg *aggregator.Aggregator
	if settings.RelayURL != "" {
		deviceID, err := config.EnsureDeviceID()
		if err != nil {
			return nil, err
		}
		var key *[32]byte
		if settings.RelayKey != "" {
			key, err = adapterrelay.ParseKey(settings.RelayKey)
			if err != nil {
				return nil, fmt.Errorf("invalid relay key: %w", err)
			}
		} else {
			logging.Logger.Warn("No relay key configured, publishing plaintext")
		}
		client := adapterrelay.NewClient(settings.RelayURL, deviceID, key, settings.RelayTimeout())
		agg = aggregator.New(store, client,
			settings.PinnedProjects, paths.PendingPublishPath(), settings.Debounce())
	}

	enricher := adapterenrich.NewCommandEnricher(settings.EnrichCommand, settings.EnrichTimeout())

	// Keep interface fields nil when the concrete value is nil so callers
	// can test with a plain nil check
	var publisher ports.ViewPublisher
	if agg != nil {
		publisher = agg
	}
	var spawn services.SpawnFunc
	if len(settings.EnrichCommand) > 0 {
		spawn = liveness.SelfSpawn
	}

	tracker := services.NewTracker(store, manager, journal, publisher, spawn)

	return &Container{
		Aggregator: agg,
		Enricher:   enricher,
		Inspector:  inspector,
		Journal:    journal,
		Liveness:   manager,
		Settings:   settings,
		Store:      store,
		Tracker:    tracker,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.Journal != nil {
		return c.Journal.Close()
	}
	return nil
}
