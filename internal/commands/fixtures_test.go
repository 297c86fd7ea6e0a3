package commands

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-unicms/internal/composites"
	"github.com/goliatone/go-unicms/internal/fixtures"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
)

const universityFixtures = "../fixtures/testdata/university"

type countingInvalidator struct {
	calls []string
}

func (c *countingInvalidator) Invalidate(name string) int {
	c.calls = append(c.calls, name)
	return 1
}

func newImporter() (*fixtures.Importer, *records.MemoryStore) {
	registry := schema.MustCatalogRegistry()
	store := records.NewMemoryStore()
	return fixtures.NewImporter(records.NewWriter(store, registry), registry), store
}

func TestImportFixturesHandler(t *testing.T) {
	importer, store := newImporter()
	pages := &countingInvalidator{}
	h := NewImportFixturesHandler(importer, pages, nil, nil)

	if err := h.Execute(context.Background(), ImportFixtures{Dir: universityFixtures}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := store.FindByKey(context.Background(), schema.CollegeTab, "admission"); err != nil {
		t.Fatalf("expected imported tab: %v", err)
	}
	if len(pages.calls) != 1 || pages.calls[0] != "" {
		t.Fatalf("expected a full page cache flush, got %v", pages.calls)
	}
}

func TestImportFixturesHandlerDryRunKeepsCache(t *testing.T) {
	importer, store := newImporter()
	pages := &countingInvalidator{}
	h := NewImportFixturesHandler(importer, pages, nil, nil)

	if err := h.Execute(context.Background(), ImportFixtures{Dir: universityFixtures, DryRun: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(pages.calls) != 0 {
		t.Fatalf("expected no flush on dry run, got %v", pages.calls)
	}
	if tabs, _ := store.Find(context.Background(), records.Query{EntityType: schema.CollegeTab}); len(tabs) != 0 {
		t.Fatalf("expected nothing written, got %d", len(tabs))
	}
}

func TestImportFixturesHandlerErrors(t *testing.T) {
	importer, _ := newImporter()
	h := NewImportFixturesHandler(importer, nil, nil, nil)

	if err := h.Execute(context.Background(), ImportFixtures{Dir: "  "}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error for blank dir, got %v", err)
	}
	err := h.Execute(context.Background(), ImportFixtures{Dir: "../fixtures/testdata/broken"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected invalid fixture to be a validation error, got %v", err)
	}
	if err := h.Execute(context.Background(), ImportFixtures{Dir: "testdata/does-not-exist"}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error for missing dir, got %v", err)
	}
	if err := NewImportFixturesHandler(nil, nil, nil, nil).Execute(context.Background(), ImportFixtures{Dir: "x"}); !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected missing importer to fail, got %v", err)
	}
}

func TestInvalidatePagesHandler(t *testing.T) {
	pages := &countingInvalidator{}
	h := NewInvalidatePagesHandler(pages, nil)

	if err := h.Execute(context.Background(), InvalidatePages{Name: composites.CollegePage}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := h.Execute(context.Background(), InvalidatePages{}); err != nil {
		t.Fatalf("Execute all: %v", err)
	}
	if len(pages.calls) != 2 || pages.calls[0] != composites.CollegePage || pages.calls[1] != "" {
		t.Fatalf("unexpected calls %v", pages.calls)
	}
	if err := h.Execute(context.Background(), InvalidatePages{Name: "home"}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected unknown page to fail validation, got %v", err)
	}
}
