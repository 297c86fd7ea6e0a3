package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-unicms/pkg/interfaces"
)

const (
	RootModule     = "unicms"
	RecordsModule  = "unicms.records"
	HTTPModule     = "unicms.http"
	PagesModule    = "unicms.pages"
	FixturesModule = "unicms.fixtures"
	CommandsModule = "unicms.commands"
	StorageModule  = "unicms.storage"
)

// ModuleLogger resolves the logger for module from provider and tags it with
// a module field. A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = RootModule
	}

	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// WithEntity scopes a logger to an entity type and, when set, a record key.
func WithEntity(logger interfaces.Logger, entityType, key string) interfaces.Logger {
	fields := map[string]any{}
	if v := strings.TrimSpace(entityType); v != "" {
		fields["entity"] = v
	}
	if v := strings.TrimSpace(key); v != "" {
		fields["key"] = v
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.FieldsLogger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
