package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airdrop-ledger/core/loader"
	"airdrop-ledger/core/logger"
	"airdrop-ledger/core/metrics"
	"airdrop-ledger/core/middleware/auth"
	"airdrop-ledger/core/middleware/rayid"
	"airdrop-ledger/core/server"
	"airdrop-ledger/feature/campaign"
	"airdrop-ledger/feature/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	migrateSchema bool
	insecure      bool
)

// @title Airdrop Ledger API
// @version 1.0
// @description Balance reads and guarded debit/credit of airdrop grants.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the ledger HTTP server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		if err := rt.cfg.Server.Validate(); err != nil {
			logg.Fatal("Invalid server configuration", zap.Error(err))
		}
		if insecure {
			rt.cfg.Server.Insecure = true
		}
		if err := rt.cfg.Server.CheckAuth(); err != nil {
			logg.Fatal("Refusing to serve without authentication", zap.Error(err))
		}
		if rt.cfg.Server.ApiKey == "" {
			logg.Warn("Serving without an API key; debit and credit are open to any caller")
		}
		if err := rt.prepareSchema(migrateSchema); err != nil {
			logg.Fatal("Schema check failed", zap.Error(err))
		}

		app, loaded, err := newApp(rt.cfg.Server, logg, rt.db, rt.resolver)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(rt.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(time.Duration(rt.cfg.Server.ShutdownSeconds) * time.Second); err != nil {
			logg.Error("Shutdown did not complete", zap.Error(err))
		}
	},
}

// newApp wires middleware and features onto a fiber app.
func newApp(cfg server.Config, logg *zap.Logger, db *gorm.DB, resolver campaign.Resolver) (*fiber.App, []string, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey, Skip: []string{"/health", "/metrics"}}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	reg := metrics.NewRegistry()
	app.Get("/metrics", metrics.Handler(reg))

	svc := ledger.NewService(db, resolver, logg).WithMetrics(ledger.NewMetrics(reg))

	mgr := loader.NewManager()
	mgr.Register(ledger.NewFeatureWithService(svc))

	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, nil, err
	}
	return app, loaded, nil
}

func init() {
	startCmd.Flags().BoolVar(&migrateSchema, "migrate", false, "Create or update the ledger tables before serving")
	startCmd.Flags().BoolVar(&insecure, "insecure", false, "Serve without an API key")
	RootCmd.AddCommand(startCmd)
}
