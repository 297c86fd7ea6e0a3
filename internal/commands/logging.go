package commands

import (
	"strings"

	"github.com/goliatone/go-unicms/internal/logging"
	"github.com/goliatone/go-unicms/pkg/interfaces"
)

// Logger returns the logger for one command group, tagged so command runs
// can be filtered together.
func Logger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, logging.CommandsModule+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":     "command",
		"command_group": name,
	})
}
