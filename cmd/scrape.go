package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yurkol/mailsweep/internal/graph"
	"github.com/yurkol/mailsweep/internal/logging"
)

// errEnough signals that the --max message budget is spent.
var errEnough = errors.New("message budget reached")

func newScrapeCmd() *cobra.Command {
	var (
		verbose bool
		max     int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Dump attachments from the configured mail folder to disk",
		Long: `Walk the configured mail folder and write every attachment of every
unseen message into the dump directory. Handled messages are recorded
in the ignore list, so the next run only touches new mail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			p, err := newPipeline(ctx, verbose)
			if err != nil {
				return err
			}
			defer p.shutdown(ctx)

			return runScrape(ctx, p, max)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().IntVar(&max, "max", 0, "Stop after this many new messages (0 means no limit)")
	return cmd
}

func runScrape(ctx context.Context, p *pipeline, max int) error {
	processed := 0
	saved := 0

	err := p.client.ForeachMessage(ctx, p.folderID, func(id string) error {
		if p.ignored.Contains(id) {
			return nil
		}

		attachments, err := p.client.ListAttachments(ctx, id)
		if err != nil {
			return err
		}

		for _, a := range attachments {
			path, err := saveAttachment(p.cfg.DumpDir, id, a)
			if err != nil {
				p.logger.Warn("skipping attachment",
					logging.MessageID(id),
					slog.String("name", a.Name),
					logging.Err(err))
				continue
			}
			saved++
			p.logger.Debug("attachment saved",
				logging.MessageID(id),
				slog.String("path", path))
		}

		if err := p.ignored.Add(id); err != nil {
			return err
		}
		processed++
		if max > 0 && processed >= max {
			return errEnough
		}
		return nil
	})
	if err != nil && !errors.Is(err, errEnough) {
		return fmt.Errorf("error processing messages: %w", err)
	}

	p.logger.Info("scrape finished",
		logging.Operation("scrape"),
		logging.Folder(p.cfg.Folder),
		slog.Int("messages", processed),
		slog.Int("attachments", saved),
		logging.Status(logging.StatusSuccess))
	return nil
}

// saveAttachment writes one decoded attachment into dir. The filename
// is prefixed with the message id hash so identically named files from
// different messages never overwrite each other.
func saveAttachment(dir, messageID string, a graph.Attachment) (string, error) {
	content, err := a.Content()
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s", shortID(messageID), graph.SanitizeFilename(a.Name))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}
	return path, nil
}

// shortID compresses an opaque message identifier into a stable
// filename prefix. Graph ids are long and can contain characters that
// are awkward in filenames.
func shortID(id string) string {
	hash := sha256.Sum256([]byte(id))
	return hex.EncodeToString(hash[:4])
}
