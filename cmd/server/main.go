package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/goliatone/go-unicms"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("unicms server: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("unicms-server", flag.ExitOnError)
	envFile := fs.String("env", ".env", "Optional .env file loaded before UNICMS_* variables")
	addr := fs.String("addr", "", "Listen address (overrides UNICMS_HTTP_ADDR)")
	seed := fs.Bool("seed", false, "Import the fixtures directory before serving")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := unicms.ConfigFromEnv(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(*addr) != "" {
		cfg.HTTP.Addr = *addr
	}

	module, err := unicms.New(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), logging.RootModule+".server")

	if *seed {
		if err := module.ImportFixtures(ctx, cfg.Fixtures.Dir, false); err != nil {
			return fmt.Errorf("seed fixtures: %w", err)
		}
		logger.Info("server.seeded", "dir", cfg.Fixtures.Dir)
	}

	app, err := newApp(module, cfg, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTP.Addr, "base_path", cfg.HTTP.BasePath)
		errCh <- app.Listen(cfg.HTTP.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server.shutdown")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newApp mounts the public API under the configured base path.
func newApp(module *unicms.Module, cfg unicms.Config, logger interfaces.Logger) (*fiber.App, error) {
	handler, err := module.Handler()
	if err != nil {
		return nil, fmt.Errorf("public handler: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "unicms",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if len(cfg.HTTP.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.HTTP.CORSOrigins, ","),
			AllowMethods: "GET,HEAD,OPTIONS",
			AllowHeaders: "Origin, Content-Type, Accept, Accept-Language",
		}))
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "languages": module.Languages()})
	})

	base := "/" + strings.Trim(strings.TrimSpace(cfg.HTTP.BasePath), "/")
	app.Use(base, adaptor.HTTPHandler(handler))
	logger.Debug("server.mounted", "base_path", base)
	return app, nil
}
