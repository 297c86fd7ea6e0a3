package commands

import (
	"context"
	"errors"
	"os"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-unicms/internal/fixtures"
	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

const (
	importOperation     = "fixtures.import"
	invalidateOperation = "pages.invalidate"
)

var ErrImporterRequired = errors.New("commands: fixture importer is required")

var (
	_ command.Commander[ImportFixtures]  = (*ImportFixturesHandler)(nil)
	_ command.Commander[InvalidatePages] = (*InvalidatePagesHandler)(nil)
)

// PageInvalidator drops cached composite pages by name; an empty name drops
// every page.
type PageInvalidator interface {
	Invalidate(name string) int
}

// ImportFixturesHandler runs fixture imports.
type ImportFixturesHandler struct {
	inner *Handler[ImportFixtures]
}

func NewImportFixturesHandler(importer *fixtures.Importer, pages PageInvalidator, logger interfaces.Logger, loaderOpts []fixtures.LoaderOption, opts ...HandlerOption[ImportFixtures]) *ImportFixturesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportFixtures) error {
		if importer == nil {
			return ErrImporterRequired
		}
		docs, err := fixtures.NewLoader(os.DirFS(msg.Dir), loaderOpts...).Load(ctx)
		if err != nil {
			return err
		}
		result, err := importer.Import(ctx, docs, fixtures.ImportOptions{DryRun: msg.DryRun})
		if result != nil {
			logging.WithFields(logger, map[string]any{
				"imported_count": len(result.Imported),
				"skipped_count":  result.Skipped,
				"failed_count":   len(result.Failures),
			}).Info("fixtures.command.import.completed")
			if len(result.Imported) > 0 && pages != nil && !msg.KeepPageCache {
				pages.Invalidate("")
			}
		}
		return err
	}

	handlerOpts := []HandlerOption[ImportFixtures]{
		WithLogger[ImportFixtures](logger),
		WithOperation[ImportFixtures](importOperation),
		WithMessageFields(func(msg ImportFixtures) map[string]any {
			fields := map[string]any{"dir": msg.Dir}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	return &ImportFixturesHandler{inner: NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *ImportFixturesHandler) Execute(ctx context.Context, msg ImportFixtures) error {
	return h.inner.Execute(ctx, msg)
}

// InvalidatePagesHandler drops cached composite pages.
type InvalidatePagesHandler struct {
	inner *Handler[InvalidatePages]
}

func NewInvalidatePagesHandler(pages PageInvalidator, logger interfaces.Logger, opts ...HandlerOption[InvalidatePages]) *InvalidatePagesHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(_ context.Context, msg InvalidatePages) error {
		if pages == nil {
			return nil
		}
		dropped := pages.Invalidate(msg.Name)
		logger.Debug("pages.command.invalidate.completed", "page", msg.Name, "dropped", dropped)
		return nil
	}

	handlerOpts := []HandlerOption[InvalidatePages]{
		WithLogger[InvalidatePages](logger),
		WithOperation[InvalidatePages](invalidateOperation),
		WithMessageFields(func(msg InvalidatePages) map[string]any {
			return map[string]any{"page": msg.Name}
		}),
	}
	return &InvalidatePagesHandler{inner: NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *InvalidatePagesHandler) Execute(ctx context.Context, msg InvalidatePages) error {
	return h.inner.Execute(ctx, msg)
}
