package main

import (
	"context"
	"fmt"

	"github.com/nerrad567/graystore/internal/api"
	"github.com/nerrad567/graystore/internal/dispatch"
	"github.com/nerrad567/graystore/internal/events"
	"github.com/nerrad567/graystore/internal/infrastructure/config"
	"github.com/nerrad567/graystore/internal/infrastructure/database"
	"github.com/nerrad567/graystore/internal/infrastructure/influxdb"
	"github.com/nerrad567/graystore/internal/infrastructure/logging"
	"github.com/nerrad567/graystore/internal/infrastructure/mqtt"
	"github.com/nerrad567/graystore/internal/store"
	"github.com/nerrad567/graystore/internal/store/sqlite"
	"github.com/nerrad567/graystore/internal/storeapi"
)

// runServe starts the configured stack and blocks until ctx is cancelled.
// onListening, if set, is called once the listener is bound.
func runServe(ctx context.Context, opts *rootOptions, onListening func(*api.Server)) error {
	log := logging.Default()
	log.Info("starting graystore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := config.ResolvePath(opts.configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	if configPath == "" {
		log.Info("no config file, using defaults")
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go a.hub.Run(hubCtx)

	bind := opts.bind
	if bind == "" {
		bind = cfg.BindURI()
	}

	listeners := api.NewListeners()
	srv, err := listeners.Start(ctx, bind, a.deps(cfg))
	if err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	log.Info("graystore ready", "address", srv.Addr(), "backend", cfg.Store.Backend, "branch", cfg.Store.Branch)
	if onListening != nil {
		onListening(srv)
	}

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := listeners.StopAll(); err != nil {
		return fmt.Errorf("stopping API server: %w", err)
	}
	log.Info("graystore stopped")
	return nil
}

// app holds the long-lived dependencies of a serving process.
type app struct {
	log     *logging.Logger
	db      *database.DB
	mqtt    *mqtt.Client
	influx  *influxdb.Client
	hub     *api.Hub
	store   *store.Store
	invoker dispatch.Invoker
	closers []func()
}

// newApp opens the backend and optional integrations and builds the
// invoker. On error everything opened so far is closed.
func newApp(ctx context.Context, cfg *config.Config, log *logging.Logger) (_ *app, err error) {
	a := &app{log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	backend, err := a.openBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := a.connectMQTT(cfg.MQTT); err != nil {
		return nil, err
	}
	if err := a.connectInfluxDB(cfg.InfluxDB); err != nil {
		return nil, err
	}

	a.hub = api.NewHub(cfg.WebSocket, log.With("component", "watch"))
	publishers := events.Fanout{a.hub}
	if a.mqtt != nil {
		publishers = append(publishers, events.NewMQTT(a.mqtt))
	}
	if a.influx != nil {
		publishers = append(publishers, events.NewMetrics(a.influx))
	}

	a.store, err = store.New(events.NewBackend(backend, publishers, log), store.Config{
		Branch: store.Tag(cfg.Store.Branch),
		Author: cfg.Store.Author,
	})
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	a.invoker = dispatch.Bind(dispatch.New(storeapi.Routes(storeapi.Default())), a.store)
	return a, nil
}

func (a *app) openBackend(ctx context.Context, cfg *config.Config) (store.Backend, error) {
	if cfg.Store.Backend != config.BackendSQLite {
		a.log.Info("using memory backend")
		return store.NewMemory(), nil
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, func() {
		a.log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			a.log.Error("error closing database", "error", closeErr)
		}
	})
	a.log.Info("database connected", "path", cfg.Database.Path)

	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	a.log.Info("database migrations complete")
	return sqlite.New(db), nil
}

func (a *app) connectMQTT(cfg config.MQTTConfig) error {
	if !cfg.Enabled {
		a.log.Info("MQTT disabled")
		return nil
	}
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(a.log.With("component", "mqtt"))
	a.mqtt = client
	a.closers = append(a.closers, func() {
		a.log.Info("disconnecting from MQTT")
		if closeErr := client.Close(); closeErr != nil {
			a.log.Error("error closing MQTT", "error", closeErr)
		}
	})
	a.log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
	)
	return nil
}

func (a *app) connectInfluxDB(cfg config.InfluxDBConfig) error {
	if !cfg.Enabled {
		a.log.Info("InfluxDB disabled")
		return nil
	}
	client, err := influxdb.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		a.log.Error("InfluxDB write error", "error", err)
	})
	a.influx = client
	a.closers = append(a.closers, func() {
		a.log.Info("closing InfluxDB connection")
		if closeErr := client.Close(); closeErr != nil {
			a.log.Error("error closing InfluxDB", "error", closeErr)
		}
	})
	a.log.Info("InfluxDB connected", "url", cfg.URL, "org", cfg.Org, "bucket", cfg.Bucket)
	return nil
}

// deps assembles the API server dependencies.
func (a *app) deps(cfg *config.Config) api.Deps {
	d := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  a.log,
		Invoker: a.invoker,
		Hub:     a.hub,
		DB:      a.db,
		MQTT:    a.mqtt,
		Version: version,
	}
	if a.influx != nil {
		d.Recorder = a.influx
		d.Checks = map[string]api.HealthChecker{"influxdb": a.influx}
	}
	return d
}

// close releases dependencies in reverse order of opening.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
