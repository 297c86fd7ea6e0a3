package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-unicms/pkg/interfaces"
)

type recordingLogger struct {
	fields []map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, fields)
	return r
}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerWithoutProvider(t *testing.T) {
	logger := ModuleLogger(nil, "")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noop logger, got %T", logger)
	}
	logger.WithContext(context.Background()).Info("ignored")
}

func TestModuleLoggerTagsModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, RecordsModule)

	if len(provider.requested) != 1 || provider.requested[0] != RecordsModule {
		t.Fatalf("expected provider lookup for %s, got %v", RecordsModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != RecordsModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestWithEntitySkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithEntity(rec, "document", " ")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if _, ok := rec.fields[0]["key"]; ok {
		t.Fatalf("expected blank key to be skipped, got %v", rec.fields[0])
	}
	if rec.fields[0]["entity"] != "document" {
		t.Fatalf("expected entity field, got %v", rec.fields[0])
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "r1", "lang": "ru"})
	ctx = ContextWithFields(ctx, map[string]any{"lang": "kg"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "r1" || fields["lang"] != "kg" {
		t.Fatalf("unexpected merged fields %v", fields)
	}

	fields["lang"] = "en"
	if ContextFields(ctx)["lang"] != "kg" {
		t.Fatal("expected ContextFields to return a copy")
	}
}
