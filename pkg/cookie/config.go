package cookie

// Config holds the environment-driven cookie defaults. Secure is forced on by
// the caller in production regardless of COOKIE_SECURE.
type Config struct {
	Path   string `env:"COOKIE_PATH" envDefault:"/"`
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

// NewFromConfig creates a Manager from cfg. opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := make([]Option, 0, 3+len(opts))

	if cfg.Path != "" {
		configOpts = append(configOpts, WithPath(cfg.Path))
	}
	if cfg.Domain != "" {
		configOpts = append(configOpts, WithDomain(cfg.Domain))
	}
	if cfg.Secure {
		configOpts = append(configOpts, WithSecure(true))
	}

	return New(append(configOpts, opts...)...)
}
