package driven

import "github.com/custodia-labs/erules-cli/internal/core/domain"

// ConfigStore persists application settings.
type ConfigStore interface {
	// Load reads the settings, falling back to defaults when the
	// config file does not exist yet.
	Load() (domain.Settings, error)

	// Save writes the settings.
	Save(settings domain.Settings) error

	// Path returns the backing file path, for display.
	Path() string
}
