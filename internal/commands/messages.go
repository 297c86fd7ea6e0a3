package commands

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-unicms/internal/composites"
)

const (
	importFixturesMessageType  = "unicms.fixtures.import"
	invalidatePagesMessageType = "unicms.pages.invalidate"
)

// ImportFixtures loads every fixture file under Dir and upserts the records.
type ImportFixtures struct {
	Dir    string `json:"dir"`
	DryRun bool   `json:"dry_run,omitempty"`
	// KeepPageCache skips the page cache flush after a successful import.
	KeepPageCache bool `json:"keep_page_cache,omitempty"`
}

func (ImportFixtures) Type() string { return importFixturesMessageType }

func (m ImportFixtures) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Dir, validation.Required, validation.By(notBlank("unicms.fixtures.import.dir_required", "dir is required"))),
	)
}

// InvalidatePages drops cached composite pages. An empty Name drops all of
// them.
type InvalidatePages struct {
	Name string `json:"name,omitempty"`
}

func (InvalidatePages) Type() string { return invalidatePagesMessageType }

func (m InvalidatePages) Validate() error {
	names := make([]any, 0, len(composites.Names()))
	for _, name := range composites.Names() {
		names = append(names, name)
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.In(names...).Error("unknown page")),
	)
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
