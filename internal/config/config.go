// Package config builds the process configuration from the environment.
//
// Configuration is constructed once in cmd and passed by value into each
// component, so tests can substitute fixtures without mutating process
// state.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default values applied when the environment leaves them unset.
const (
	DefaultFolder      = "Inbox"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultSMTPPort    = 587
)

// Config holds everything mailsweep reads from its environment.
type Config struct {
	// Azure AD application (client) identifier.
	ClientID string

	// Azure AD tenant identifier.
	TenantID string

	// Username is the delegated mailbox identity (an email address).
	Username string

	// Password for the ROPC exchange.
	Password string

	// SMTPServer and SMTPPort configure the forward command only.
	SMTPServer string
	SMTPPort   int

	// Folder is the display name of the mail folder to traverse.
	// Default folder names are locale-dependent; the name must match
	// the mailbox's configured locale.
	Folder string

	// DumpDir is where attachments and the ignore list are written.
	DumpDir string

	// HTTPTimeout bounds every Graph request.
	HTTPTimeout time.Duration

	// MetricsEnabled switches on metric export at shutdown.
	MetricsEnabled bool
}

// envBindings maps viper keys to the environment variables they read.
var envBindings = map[string]string{
	"client_id":       "CLIENT_ID",
	"tenant_id":       "TENANT_ID",
	"username":        "USERNAME",
	"password":        "PASSWORD",
	"smtp_server":     "SMTP_SERVER",
	"smtp_port":       "SMTP_PORT",
	"folder":          "MAIL_FOLDER",
	"dump_dir":        "DUMP_DIR",
	"http_timeout":    "HTTP_TIMEOUT",
	"metrics_enabled": "METRICS_ENABLED",
}

// Load reads the configuration from the process environment.
// It never validates; call Validate (and ValidateSMTP for the forward
// command) once flag overrides have been applied.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("folder", DefaultFolder)
	v.SetDefault("dump_dir", ".")
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("smtp_port", DefaultSMTPPort)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := Config{
		ClientID:       v.GetString("client_id"),
		TenantID:       v.GetString("tenant_id"),
		Username:       v.GetString("username"),
		Password:       v.GetString("password"),
		SMTPServer:     v.GetString("smtp_server"),
		SMTPPort:       v.GetInt("smtp_port"),
		Folder:         v.GetString("folder"),
		DumpDir:        v.GetString("dump_dir"),
		HTTPTimeout:    v.GetDuration("http_timeout"),
		MetricsEnabled: v.GetBool("metrics_enabled"),
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	return cfg, nil
}

// Validate checks the credential fields every command requires.
func (c Config) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"CLIENT_ID", c.ClientID},
		{"TENANT_ID", c.TenantID},
		{"USERNAME", c.Username},
		{"PASSWORD", c.Password},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateSMTP checks the fields the forward command additionally requires.
func (c Config) ValidateSMTP() error {
	if c.SMTPServer == "" {
		return fmt.Errorf("missing required configuration: SMTP_SERVER")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP_PORT: %d", c.SMTPPort)
	}
	return nil
}
