package extension

// Config holds the carbon extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.carbon" or "carbon" keys).
type Config struct {
	// DisableRoutes prevents the HTTP handler from being provided.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// BasePath is the URL prefix for carbon routes (default: "/carbon").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// AccountHeader is the request header holding the authenticated caller
	// identity (default: "X-Carbon-Account").
	AccountHeader string `json:"account_header" mapstructure:"account_header" yaml:"account_header"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:      "/carbon",
		AccountHeader: "X-Carbon-Account",
	}
}
