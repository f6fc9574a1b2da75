package instrumentation

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: mailsweep)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Enabled determines if instrumentation is active (default: false).
	// When enabled, metrics are exported to stdout at shutdown.
	Enabled bool
}

// DefaultConfig returns the configuration for a plain CLI run. The
// enabled switch comes from the caller's configuration so this package
// never reads the environment itself.
func DefaultConfig(version string, enabled bool) Config {
	return Config{
		ServiceName:    "mailsweep",
		ServiceVersion: version,
		Enabled:        enabled,
	}
}
