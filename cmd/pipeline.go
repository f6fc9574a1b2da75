package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yurkol/mailsweep/internal/config"
	"github.com/yurkol/mailsweep/internal/graph"
	"github.com/yurkol/mailsweep/internal/ignore"
	"github.com/yurkol/mailsweep/internal/instrumentation"
	"github.com/yurkol/mailsweep/internal/logging"
	"github.com/yurkol/mailsweep/internal/msauth"
)

// ignoreListFile is the ignore list filename inside the dump directory.
const ignoreListFile = "ignore_list.csv"

// pipeline bundles the collaborators both mailbox commands need:
// a validated configuration, a signed-in Graph client, the resolved
// folder id and the persistent ignore list.
type pipeline struct {
	cfg      config.Config
	logger   *slog.Logger
	instr    *instrumentation.Provider
	client   *graph.Client
	folderID string
	ignored  *ignore.List
}

// newPipeline loads and validates the configuration, acquires a token
// for the mailbox identity, resolves the configured folder and loads
// the ignore list. It fails fast on missing credentials or an
// unresolvable folder so no command half-runs.
func newPipeline(ctx context.Context, verbose bool) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(os.Stderr, verbose)

	instr, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig(version, cfg.MetricsEnabled))
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	provider, err := msauth.NewProvider(msauth.Credential{
		ClientID: cfg.ClientID,
		TenantID: cfg.TenantID,
		Username: cfg.Username,
		Password: cfg.Password,
	}, msauth.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	client := graph.NewClient(ctx, msauth.TokenSource(ctx, provider),
		graph.WithTimeout(cfg.HTTPTimeout),
		graph.WithLogger(logger),
		graph.WithMetrics(instr.Metrics()))

	folderID, ok, err := client.FolderID(ctx, cfg.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve folder %q: %w", cfg.Folder, err)
	}
	if !ok {
		// Display names are locale-dependent; Graph's well-known folder
		// names work in place of an id regardless of locale.
		wellKnown, isWellKnown := graph.WellKnownFolder(cfg.Folder)
		if !isWellKnown {
			return nil, fmt.Errorf("folder %q not found in mailbox (folder names are locale-dependent)", cfg.Folder)
		}
		logger.Debug("display name not found, using well-known folder name",
			logging.Folder(wellKnown))
		folderID = wellKnown
	}

	if err := os.MkdirAll(cfg.DumpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create dump directory: %w", err)
	}

	ignored, err := ignore.Load(filepath.Join(cfg.DumpDir, ignoreListFile))
	if err != nil {
		return nil, err
	}

	logger.Info("mailbox pipeline ready",
		logging.UserHash(cfg.Username),
		logging.Domain(cfg.Username),
		logging.Folder(cfg.Folder),
		slog.Int("already_handled", ignored.Len()))

	return &pipeline{
		cfg:      cfg,
		logger:   logger,
		instr:    instr,
		client:   client,
		folderID: folderID,
		ignored:  ignored,
	}, nil
}

// shutdown flushes instrumentation.
func (p *pipeline) shutdown(ctx context.Context) {
	if err := p.instr.Shutdown(ctx); err != nil {
		p.logger.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}
