package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bmarchant/imperium/pkg/api"
	authproviders "github.com/bmarchant/imperium/pkg/auth/providers"
	"github.com/bmarchant/imperium/pkg/clock"
	"github.com/bmarchant/imperium/pkg/config"
	"github.com/bmarchant/imperium/pkg/game"
	"github.com/bmarchant/imperium/pkg/notify"
	"github.com/bmarchant/imperium/pkg/queue"
	"github.com/bmarchant/imperium/pkg/refdata"
	"github.com/bmarchant/imperium/pkg/store"
	"github.com/bmarchant/imperium/pkg/workers"
	"github.com/sirupsen/logrus"
)

func main() {
	port := flag.Int("port", 0, "HTTP port to listen on (overrides IMPERIUM_PORT)")
	logLevel := flag.String("log-level", "", "Log level (overrides IMPERIUM_LOG_LEVEL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	parsedLogLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Failed to parse log level: %v", err)
	}
	logrus.SetLevel(parsedLogLevel)
	logrus.Infof("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameStore, err := newStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to create store: %v", err)
	}
	defer gameStore.Close(ctx)

	authProvider, err := newAuthProvider(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to create auth provider: %v", err)
	}

	notificationQueue := queue.NewInMemoryQueue(1000)
	watchHub := api.NewWatchHub()

	engine := game.NewEngine(game.NewEngineOptions{
		Store:         gameStore,
		RefData:       refdata.Default(),
		Clock:         clock.System(),
		Notifications: notificationQueue,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		OnCommit:      watchHub.Publish,
	})

	notifyWorker := workers.NewNotifyWorker(workers.NewNotifyWorkerOptions{
		Notifications: notificationQueue,
		Notifier:      newNotifier(cfg),
		Interval:      5 * time.Second,
	})
	go notifyWorker.Start(ctx)

	pruneWorker := workers.NewSnapshotPruneWorker(workers.NewSnapshotPruneWorkerOptions{
		Store:    gameStore,
		Interval: 15 * time.Minute,
	})
	go pruneWorker.Start(ctx)

	var tlsConfig *api.TLSConfig
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		tlsConfig = &api.TLSConfig{CertFile: cfg.TLSCertFile, KeyFile: cfg.TLSKeyFile}
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         cfg.Port,
		TLS:          tlsConfig,
		AuthProvider: authProvider,
		Engine:       engine,
		Store:        gameStore,
		WatchHub:     watchHub,
	})
	go apiServer.Start()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		logrus.Errorf("Failed to stop API server: %v", err)
	}
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.DatabaseURL)
	case "sqlite":
		return store.NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		logrus.Warn("Using in-memory store, games will not survive a restart")
		return store.NewInMemoryStore(), nil
	}
}

func newAuthProvider(ctx context.Context, cfg *config.Config) (authproviders.AuthProvider, error) {
	switch cfg.Auth {
	case "firebase":
		return authproviders.NewFirebaseAuthProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseAPIKey)
	default:
		logrus.Warn("Using static auth provider, do not expose this server publicly")
		return authproviders.NewStaticAuthProvider(cfg.StaticAuthSecret), nil
	}
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SMTPAddr == "" {
		return notify.NoopNotifier{}
	}
	return notify.NewSMTPNotifier(notify.NewSMTPNotifierOptions{
		Addr:     cfg.SMTPAddr,
		From:     cfg.SMTPFrom,
		Host:     cfg.SMTPHost,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
}
