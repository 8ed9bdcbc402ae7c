package main

import (
	"context"
	"fmt"

	_ "github.com/nerrad567/gray-logic-assistant/migrations"

	"github.com/nerrad567/gray-logic-assistant/internal/api"
	"github.com/nerrad567/gray-logic-assistant/internal/assistant"
	"github.com/nerrad567/gray-logic-assistant/internal/configstore"
	"github.com/nerrad567/gray-logic-assistant/internal/devicetypes"
	"github.com/nerrad567/gray-logic-assistant/internal/fulfillment"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-assistant/internal/seed"
	"github.com/nerrad567/gray-logic-assistant/internal/variable"
)

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context, configPath string) error { //nolint:gocognit,gocyclo // linear start-up sequence
	log := logging.Default()
	log.Info("starting Gray Logic Assistant",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	defer log.Close() //nolint:errcheck // best-effort flush of the log file
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"output", cfg.Logging.Output,
	)

	// Database
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	schema, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	log.Info("database ready", "path", db.Path(), "schema_version", schema, "migrations_applied", applied)

	properties := configstore.NewSQLiteStore(db.DB)
	variables := variable.NewSQLiteStore(db.DB)
	health := map[string]api.HealthChecker{"database": db}

	// MQTT (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(ctx, cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
		mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
		health["mqtt"] = mqttClient
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled, variables change only through fulfillment")
	}

	// Handlers write through the bus when it is available.
	var handlerVars variable.Store = variables
	if mqttClient != nil {
		handlerVars = variable.NewPublishingStore(variables, mqttClient)
	}

	// Device type registry
	owner := cfg.Assistant.InstanceID
	registry := assistant.NewRegistry(properties, owner)
	registry.SetLogger(log.With("component", "assistant"))
	registry.SetMaxRepairPasses(cfg.Assistant.MaxRepairPasses)
	if regErr := devicetypes.RegisterAll(registry, handlerVars, cfg.Assistant.DeviceTypes); regErr != nil {
		return fmt.Errorf("registering device types: %w", regErr)
	}
	if regErr := registry.RegisterProperties(ctx); regErr != nil {
		return fmt.Errorf("registering properties: %w", regErr)
	}
	log.Info("device types registered", "count", len(registry.DeviceTypes()), "owner", owner)

	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	properties.OnApply(registry.HandleApply)
	properties.OnApply(hub.NotifyApply)

	if cfg.Assistant.SeedFile != "" {
		if seedErr := applySeed(ctx, cfg.Assistant.SeedFile, registry, variables, log); seedErr != nil {
			return seedErr
		}
	}

	// Initial apply assigns identifiers to records added while stopped.
	if applyErr := properties.ApplyChanges(ctx, owner); applyErr != nil {
		return fmt.Errorf("applying configuration: %w", applyErr)
	}

	handler := fulfillment.NewHandler(registry, cfg.Site.ID)
	handler.SetLogger(log.With("component", "fulfillment"))
	log.Info("fulfillment ready", "agent_user_id", handler.AgentUserID())

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		handler.AddRecorder(influxClient)
		health["influxdb"] = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	if mqttClient != nil {
		if busErr := startBus(ctx, mqttClient, properties, variables, handler, hub, influxClient, owner, log); busErr != nil {
			return busErr
		}
	}

	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		Logger:      log,
		Registry:    registry,
		Fulfillment: handler,
		Store:       properties,
		Health:      health,
		Hub:         hub,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// API server, InfluxDB, MQTT, database, log file.
	return nil
}

// applySeed loads the seed file and writes it into empty device lists and
// missing variables.
func applySeed(ctx context.Context, path string, registry *assistant.Registry, vars seed.Definer, log *logging.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return fmt.Errorf("loading seed: %w", err)
	}
	if _, err := seed.Apply(ctx, f, registry, vars, log.Logger); err != nil {
		return fmt.Errorf("applying seed: %w", err)
	}
	return nil
}

// startBus connects the variable bridge, the apply trigger and the
// execution announcements to the MQTT bus.
func startBus(
	ctx context.Context,
	client *mqtt.Client,
	properties *configstore.SQLiteStore,
	variables variable.Store,
	handler *fulfillment.Handler,
	hub *api.Hub,
	influxClient *influxdb.Client,
	owner string,
	log *logging.Logger,
) error {
	bridge := variable.NewBridge(variables, client)
	bridge.SetLogger(log.With("component", "variable-bridge"))
	bridge.OnChange(func(id string, value any) {
		hub.NotifyVariable(id, value)
		influxClient.RecordVariable(id, value)
	})
	if err := bridge.Start(); err != nil {
		return fmt.Errorf("starting variable bridge: %w", err)
	}

	topics := mqtt.Topics{}
	applyTopic := topics.AssistantApply(owner)
	err := client.Subscribe(applyTopic, 1, func(_ string, _ []byte) error {
		log.Info("configuration apply requested over MQTT", "owner", owner)
		return properties.ApplyChanges(ctx, owner)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", applyTopic, err)
	}

	recorder := fulfillment.NewBusRecorder(client, topics.AssistantExecution(owner))
	recorder.SetLogger(log.With("component", "execution-bus"))
	handler.AddRecorder(recorder)

	log.Info("bus wiring complete", "apply_topic", applyTopic)
	return nil
}
