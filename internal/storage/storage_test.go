package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/locale"
	"github.com/goliatone/go-unicms/internal/records"
	"github.com/goliatone/go-unicms/internal/schema"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, Config{Dialect: "sqlite3", DSN: "file:storage_test?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
	}

	store := records.NewBunStore(db)
	saved, err := store.Save(ctx, &records.Record{
		ID: uuid.New(), EntityType: schema.AdministrativeUnit, Key: "rectorate", IsActive: true,
		Texts: map[string]locale.Text{"name": {RU: "Ректорат"}},
		Lists: map[string]locale.List{"responsibilities": {RU: []string{"Управление"}}},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.FindByKey(ctx, schema.AdministrativeUnit, "rectorate")
	if err != nil || got.ID != saved.ID {
		t.Fatalf("FindByKey: %v", err)
	}
	if items := got.List("responsibilities").Resolve(locale.EN); len(items) != 1 || items[0] != "Управление" {
		t.Fatalf("unexpected list %v", items)
	}
}

func TestOpenValidation(t *testing.T) {
	if _, err := Open(context.Background(), Config{Dialect: "sqlite"}); !errors.Is(err, ErrDSNRequired) {
		t.Fatalf("expected ErrDSNRequired, got %v", err)
	}
	if _, err := Open(context.Background(), Config{Dialect: "mysql", DSN: "x"}); !errors.Is(err, ErrUnknownDialect) {
		t.Fatalf("expected ErrUnknownDialect, got %v", err)
	}
}

func TestNormalizeDialect(t *testing.T) {
	cases := map[string]string{"": DialectSQLite, "SQLite3": DialectSQLite, "pg": DialectPostgres, "postgresql": DialectPostgres}
	for in, want := range cases {
		got, err := NormalizeDialect(in)
		if err != nil || got != want {
			t.Fatalf("NormalizeDialect(%q) = %q, %v", in, got, err)
		}
	}
}
