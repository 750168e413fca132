package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/ratelimit"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/accounts/gormstore"
	"github.com/marmos91/gridaccounts/pkg/api"
	"github.com/marmos91/gridaccounts/pkg/api/auth"
	"github.com/marmos91/gridaccounts/pkg/api/handlers"
	"github.com/marmos91/gridaccounts/pkg/config"
	"github.com/marmos91/gridaccounts/pkg/database"
	"github.com/marmos91/gridaccounts/pkg/i18n"
	"github.com/marmos91/gridaccounts/pkg/identity"
	"github.com/marmos91/gridaccounts/pkg/mapping"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/notify"
	"github.com/marmos91/gridaccounts/pkg/provisioning"
	"github.com/marmos91/gridaccounts/pkg/services/memory"

	// Mapping store drivers register themselves with pkg/mapping
	_ "github.com/marmos91/gridaccounts/pkg/mapping/badger"
	_ "github.com/marmos91/gridaccounts/pkg/mapping/gormstore"
	_ "github.com/marmos91/gridaccounts/pkg/mapping/memory"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/gridaccounts/pkg/metrics/prometheus"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gridacct server",
	Long: `Start the gridacct server with the specified configuration.

The server runs in the foreground until SIGINT or SIGTERM, then shuts down
gracefully within shutdown_timeout.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/gridacct/config.yaml.

Examples:
  # Start with the default config file
  gridacct start

  # Start with custom config file
  gridacct start --config /etc/gridacct/config.yaml

  # Start with environment variable overrides
  GRIDACCT_LOGGING_LEVEL=DEBUG gridacct start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry (if enabled)
	telemetryCfg := telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "gridacct",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	}
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			logger.Error("telemetry shutdown error", logger.KeyError, err)
		}
	}()

	// Initialize Pyroscope profiling (if enabled)
	profilingCfg := telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    "gridacct",
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	}
	profilingShutdown, err := telemetry.InitProfiling(profilingCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", logger.KeyError, err)
		}
	}()

	logger.Info("Log level", "level", cfg.Logging.Level, "format", cfg.Logging.Format)
	logger.Info("Configuration loaded", "source", getConfigSource(GetConfigFile()))
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	// Metrics must be initialized before the services that record them
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metricsServer = metrics.NewServer(cfg.Metrics.Port)
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("Metrics collection disabled")
	}

	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	if path := GetConfigFile(); path != "" || config.DefaultConfigExists() {
		if path == "" {
			path = config.GetDefaultConfigPath()
		}
		config.WatchConfig(path, nil)
	}

	errCh := make(chan error, 2)
	running := 0

	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, svc.deps)
		running++
		go func() { errCh <- apiServer.Start(ctx) }()
	} else {
		logger.Info("API server disabled")
	}
	if metricsServer != nil {
		running++
		go func() { errCh <- metricsServer.Start(ctx) }()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Server is running. Press Ctrl+C to stop.")

	var runErr error
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, initiating graceful shutdown")
	case runErr = <-errCh:
		running--
		logger.Error("Server error", logger.KeyError, runErr)
	}
	cancel()

	timeout := time.NewTimer(cfg.ShutdownTimeout)
	defer timeout.Stop()
	for ; running > 0; running-- {
		select {
		case err := <-errCh:
			if err != nil {
				logger.Error("Server shutdown error", logger.KeyError, err)
			}
		case <-timeout.C:
			return fmt.Errorf("shutdown timed out after %s", cfg.ShutdownTimeout)
		}
	}

	logger.Info("Server stopped")
	return runErr
}

// services are the long-lived components behind the API.
type services struct {
	deps   api.Deps
	closer []func() error
}

func (s *services) close() {
	for i := len(s.closer) - 1; i >= 0; i-- {
		if err := s.closer[i](); err != nil {
			logger.Warn("Close failed", logger.KeyError, err)
		}
	}
}

// openServices opens the stores and assembles the registration workflow.
// A missing or unknown mapping driver is fatal.
func openServices(ctx context.Context, cfg *config.Config) (_ *services, err error) {
	s := &services{}
	defer func() {
		if err != nil {
			s.close()
		}
	}()

	directory, err := gormstore.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open account directory: %w", err)
	}
	s.closer = append(s.closer, directory.Close)
	logger.Info("Account directory opened", logger.KeyDriver, string(cfg.Database.Type))

	mappings, err := mapping.Open(ctx, cfg.Mapping.StorageProvider, mapping.DriverArgs{
		ConnectionString: mappingConnectionString(cfg),
		Table:            cfg.Mapping.Realm,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping store: %w", err)
	}
	s.closer = append(s.closer, mappings.Close)
	logger.Info("Mapping store opened", logger.KeyDriver, cfg.Mapping.StorageProvider, logger.KeyRealm, cfg.Mapping.Realm)

	coord := identity.New(directory, mappings, identity.Config{
		CountCacheTTL: cfg.Accounts.CountCacheTTL,
	}, metrics.NewIdentityMetrics())

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	localizer, err := i18n.NewLocalizer(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to build localizer: %w", err)
	}

	notifier, err := notify.New(ctx, cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("failed to open notifier: %w", err)
	}
	s.closer = append(s.closer, notifier.Close)
	logger.Info("Notifications enabled", logger.KeyDriver, cfg.Notify.Driver)

	workflow, err := provisioning.New(coord, provisioning.Services{
		Inventory: memory.NewInventory(),
		Auth:      memory.NewAuth(),
		Avatar:    memory.NewAvatars(),
		GridUser:  memory.NewGridUsers(),
		Notifier:  notifier,
		Localizer: localizer,
	}, cfg.Registration.Policy, metrics.NewProvisioningMetrics())
	if err != nil {
		return nil, err
	}

	var jwtService *auth.JWTService
	if cfg.API.JWT.Secret != "" {
		jwtService, err = auth.NewJWTService(cfg.API.JWT)
		if err != nil {
			return nil, fmt.Errorf("invalid api.jwt configuration: %w", err)
		}
	}

	s.deps = api.Deps{
		Workflow: workflow,
		Identity: coord,
		JWT:      jwtService,
		Limiter:  ratelimit.New(cfg.Registration.RateLimit),
		Metrics:  metrics.NewHTTPMetrics(),
		Checks: map[string]handlers.Check{
			"accounts": func(ctx context.Context) error {
				sqlDB, err := directory.DB().DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		},
	}

	return s, nil
}

// mappingConnectionString returns the configured connection string. When it
// is empty and the mapping driver matches the account database, the
// mappings share that database.
func mappingConnectionString(cfg *config.Config) string {
	if cfg.Mapping.ConnectionString != "" {
		return cfg.Mapping.ConnectionString
	}
	switch {
	case cfg.Mapping.StorageProvider == string(database.DatabaseTypeSQLite) && cfg.Database.Type == database.DatabaseTypeSQLite:
		return cfg.Database.SQLite.Path
	case cfg.Mapping.StorageProvider == string(database.DatabaseTypePostgres) && cfg.Database.Type == database.DatabaseTypePostgres:
		return cfg.Database.Postgres.DSN()
	}
	return ""
}
