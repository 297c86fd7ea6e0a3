package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-unicms"
	"github.com/goliatone/go-unicms/internal/commands"
)

var moduleBuilder = func(cfg unicms.Config) (*unicms.Module, error) {
	return unicms.New(cfg)
}

func main() {
	if err := runSeed(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("unicms seed: %v", err)
	}
}

func runSeed(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("unicms-seed", flag.ExitOnError)
	envFile := fs.String("env", ".env", "Optional .env file loaded before UNICMS_* variables")
	dir := fs.String("dir", "", "Fixture directory (defaults to UNICMS_FIXTURES_DIR)")
	dryRun := fs.Bool("dry-run", false, "Validate and resolve fixtures without writing records")
	retries := fs.Int("retries", 0, "Retries for the import command")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := unicms.ConfigFromEnv(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(*dir) != "" {
		cfg.Fixtures.Dir = *dir
	}

	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	unsubscribe := commands.Subscribe(module.Container().Commands(), *retries)
	defer unsubscribe()

	msg := commands.ImportFixtures{Dir: cfg.Fixtures.Dir, DryRun: *dryRun}
	if err := dispatcher.Dispatch(ctx, msg); err != nil {
		return fmt.Errorf("import %s: %w", msg.Dir, err)
	}

	mode := "imported"
	if *dryRun {
		mode = "checked"
	}
	fmt.Fprintf(out, "fixtures %s from %s into %s storage\n", mode, msg.Dir, cfg.Storage.Provider)
	return nil
}
