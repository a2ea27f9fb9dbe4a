package main

import (
	"compress/gzip"
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/application/coordinator"
	"github.com/diwise/cell-locator/internal/pkg/application/events"
	"github.com/diwise/cell-locator/internal/pkg/application/locationhub"
	"github.com/diwise/cell-locator/internal/pkg/application/locator"
	"github.com/diwise/cell-locator/internal/pkg/application/session"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/proximity"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/regioncache"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/router"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/tracing"
	"github.com/diwise/cell-locator/internal/pkg/presentation/api"
	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const serviceName string = "cell-locator"

type appConfig struct {
	servicePort       string
	dataset           regioncache.Config
	regionKey         string
	regionsFile       string
	notificationsFile string
	locator           locator.Config
	nearestLimit      int
	jwtSecret         string
	messagingEnabled  bool
}

type application struct {
	cache       regioncache.RegionCache
	coordinator coordinator.Coordinator
	resolver    coordinator.RegionResolver
	hub         locationhub.LocationHub
	locator     locator.Locator
	session     session.Session
}

func main() {
	var seedFile, seedRegion string

	flag.StringVar(&seedFile, "seed", "", "build a region dataset from an OpenCellID csv export (optionally gzipped) and exit")
	flag.StringVar(&seedRegion, "region", "", "region key for the seeded dataset, defaults to the export's file name")
	flag.Parse()

	_ = godotenv.Load()

	serviceVersion := version()

	ctx, logger := logging.NewLogger(context.Background(), serviceName, serviceVersion, os.Getenv("LOG_LEVEL"))
	logger.Info().Msg("starting up ...")

	cleanup, err := tracing.Init(ctx, logger, serviceName, serviceVersion)
	exitIf(err, logger, "failed to init tracing")
	defer cleanup()

	cfg := loadConfiguration(logger)

	cache, err := regioncache.New(cfg.dataset)
	exitIf(err, logger, "failed to create region cache")

	if seedFile != "" {
		err = seedDataset(ctx, cache, seedFile, seedRegion)
		exitIf(err, logger, "failed to seed dataset")
		return
	}

	resolver, err := newResolver(cfg)
	exitIf(err, logger, "failed to create region resolver")

	app := newApplication(cfg, cache, resolver)

	if cfg.messagingEnabled {
		messenger, err := messaging.Initialize(messaging.LoadConfiguration(serviceName, logger))
		exitIf(err, logger, "failed to init messenger")
		defer messenger.Close()

		locator.RegisterTopicMessageHandler(messenger, app.locator)
		app.hub.AddSubscriber(events.NewTopicPublisher(ctx, messenger))
	}

	var notifier *events.Notifier
	if cfg.notificationsFile != "" {
		notifier, err = newNotifier(cfg.notificationsFile)
		exitIf(err, logger, "failed to create notifier")

		notifier.Start(ctx)
		app.hub.AddSubscriber(notifier)
	}

	err = app.session.Start(ctx)
	exitIf(err, logger, "failed to start session")

	r := setupRouter(logger, cfg, app)

	server := &http.Server{
		Addr:              ":" + cfg.servicePort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().Str("port", cfg.servicePort).Msg("starting to listen for connections")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start request router")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down ...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shut down http server")
	}

	if notifier != nil {
		notifier.Stop()
	}

	if err := app.session.Stop(); err != nil {
		logger.Error().Err(err).Msg("failed to release datasets")
	}
}

func newApplication(cfg appConfig, cache regioncache.RegionCache, resolver coordinator.RegionResolver) *application {
	c := coordinator.New(cache, coordinator.WithLimit(cfg.nearestLimit))
	h := locationhub.New(c, resolver)
	l := locator.New(cfg.locator)

	return &application{
		cache:       cache,
		coordinator: c,
		resolver:    resolver,
		hub:         h,
		locator:     l,
		session:     session.New(l, h, c),
	}
}

func setupRouter(logger zerolog.Logger, cfg appConfig, app *application) *chi.Mux {
	r := router.New(serviceName, logger)
	r = api.RegisterHandlers(logger, r, app.coordinator, app.resolver, app.locator, cfg.jwtSecret)
	r.Handle("/metrics", metrics.Handler())

	return r
}

// newResolver chains the configured bounding box regions with the fixed region key, in that order.
func newResolver(cfg appConfig) (coordinator.RegionResolver, error) {
	resolvers := []coordinator.RegionResolver{}

	if cfg.regionsFile != "" {
		f, err := os.Open(cfg.regionsFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		regions, err := coordinator.LoadRegions(f)
		if err != nil {
			return nil, err
		}

		resolvers = append(resolvers, coordinator.BoundingBoxResolver(regions))
	}

	if cfg.regionKey != "" {
		resolvers = append(resolvers, coordinator.StaticResolver(cfg.regionKey))
	}

	return coordinator.ChainResolver(resolvers...), nil
}

func newNotifier(notificationsFile string) (*events.Notifier, error) {
	f, err := os.Open(notificationsFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	notificationsCfg, err := events.LoadConfiguration(f)
	if err != nil {
		return nil, err
	}

	return events.NewNotifier(notificationsCfg)
}

func seedDataset(ctx context.Context, cache regioncache.RegionCache, seedFile, region string) error {
	if region == "" {
		region = strings.TrimSuffix(seedFile, ".gz")
	}

	key := regioncache.NormalizeKey(region)
	if key == "" {
		return regioncache.ErrInvalidKey
	}

	f, err := os.Open(seedFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var export io.Reader = f

	if strings.HasSuffix(seedFile, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		export = gz
	}

	log := logging.GetFromContext(ctx)
	log.Info().Str("region", key.String()).Str("file", seedFile).Msg("seeding dataset")

	return proximity.Seed(ctx, cache.PathFor(key), export)
}

func loadConfiguration(logger zerolog.Logger) appConfig {
	envOrDef := func(key, def string) string {
		return env.GetVariableOrDefault(logger, key, def)
	}

	durationOrDef := func(key string, def time.Duration) time.Duration {
		d, err := time.ParseDuration(envOrDef(key, def.String()))
		if err != nil {
			logger.Warn().Err(err).Msgf("invalid duration in %s, using %s", key, def)
			return def
		}
		return d
	}

	intOrDef := func(key string, def int) int {
		i, err := strconv.Atoi(envOrDef(key, strconv.Itoa(def)))
		if err != nil {
			logger.Warn().Err(err).Msgf("invalid number in %s, using %d", key, def)
			return def
		}
		return i
	}

	minDistance, err := strconv.ParseFloat(envOrDef("LOCATOR_MIN_DISTANCE", "3"), 64)
	if err != nil {
		logger.Warn().Err(err).Msg("invalid LOCATOR_MIN_DISTANCE, using default")
		minDistance = locator.DefaultMinDistance
	}

	messagingEnabled, _ := strconv.ParseBool(envOrDef("MESSAGING_ENABLED", "true"))

	return appConfig{
		servicePort: envOrDef("SERVICE_PORT", "8080"),
		dataset: regioncache.Config{
			Dir:          envOrDef("DATASET_DIR", "/opt/diwise/cells"),
			RemoteRoot:   envOrDef("DATASET_REMOTE_ROOT", regioncache.DefaultRemoteRoot),
			Extension:    envOrDef("DATASET_EXTENSION", regioncache.DefaultExtension),
			FetchTimeout: durationOrDef("DATASET_FETCH_TIMEOUT", regioncache.DefaultFetchTimeout),
			MaxDatasets:  intOrDef("DATASET_MAX_COUNT", 0),
		},
		regionKey:         envOrDef("REGION_KEY", ""),
		regionsFile:       envOrDef("REGIONS_FILE", ""),
		notificationsFile: envOrDef("NOTIFICATIONS_FILE", ""),
		locator: locator.Config{
			MinInterval: durationOrDef("LOCATOR_MIN_INTERVAL", locator.DefaultMinInterval),
			MinDistance: minDistance,
		},
		nearestLimit:     intOrDef("NEAREST_LIMIT", proximity.DefaultLimit),
		jwtSecret:        envOrDef("JWT_SECRET", ""),
		messagingEnabled: messagingEnabled,
	}
}

func exitIf(err error, logger zerolog.Logger, msg string) {
	if err != nil {
		logger.Fatal().Err(err).Msg(msg)
	}
}

func version() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	buildSettings := buildInfo.Settings
	infoMap := map[string]string{}
	for _, s := range buildSettings {
		infoMap[s.Key] = s.Value
	}

	sha := infoMap["vcs.revision"]
	if infoMap["vcs.modified"] == "true" {
		sha += "+"
	}

	return sha
}
