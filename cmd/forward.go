package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yurkol/mailsweep/internal/forward"
	"github.com/yurkol/mailsweep/internal/graph"
	"github.com/yurkol/mailsweep/internal/logging"
)

func newForwardCmd() *cobra.Command {
	var (
		verbose bool
		max     int
		to      string
	)

	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Re-send attachments from the configured mail folder over SMTP",
		Long: `Walk the configured mail folder and forward the attachments of every
unseen message to the given recipient. The SMTP session authenticates
with the same mailbox credentials used for scraping. Messages without
attachments are recorded as handled but nothing is sent for them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			p, err := newPipeline(ctx, verbose)
			if err != nil {
				return err
			}
			defer p.shutdown(ctx)

			if err := p.cfg.ValidateSMTP(); err != nil {
				return err
			}

			forwarder := forward.NewForwarder(
				p.cfg.SMTPServer, p.cfg.SMTPPort,
				p.cfg.Username, p.cfg.Password,
				forward.WithLogger(p.logger))

			return runForward(ctx, p, forwarder, to, max)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().IntVar(&max, "max", 0, "Stop after this many new messages (0 means no limit)")
	cmd.Flags().StringVar(&to, "to", "", "Recipient address (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// attachmentForwarder sends one batch of attachments to a recipient.
// *forward.Forwarder implements it; tests plug in a recorder.
type attachmentForwarder interface {
	Forward(to, subject, body string, attachments []graph.Attachment) error
}

func runForward(ctx context.Context, p *pipeline, forwarder attachmentForwarder, to string, max int) error {
	processed := 0
	sent := 0

	err := p.client.ForeachMessage(ctx, p.folderID, func(id string) error {
		if p.ignored.Contains(id) {
			return nil
		}

		attachments, err := p.client.ListAttachments(ctx, id)
		if err != nil {
			return err
		}

		if len(attachments) > 0 {
			if err := forwarder.Forward(to, forwardSubject(attachments), forwardBody(attachments), attachments); err != nil {
				return err
			}
			sent++
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

	p.logger.Info("forward finished",
		logging.Operation("forward"),
		logging.Folder(p.cfg.Folder),
		slog.Int("messages", processed),
		slog.Int("sent", sent),
		logging.Status(logging.StatusSuccess))
	return nil
}

func forwardSubject(attachments []graph.Attachment) string {
	if len(attachments) == 1 {
		return fmt.Sprintf("mailsweep: %s", graph.SanitizeFilename(attachments[0].Name))
	}
	return fmt.Sprintf("mailsweep: %d attachments", len(attachments))
}

func forwardBody(attachments []graph.Attachment) string {
	var b strings.Builder
	b.WriteString("Attachments collected by mailsweep:\n\n")
	for _, a := range attachments {
		fmt.Fprintf(&b, "  %s (%s, %d bytes)\n", graph.SanitizeFilename(a.Name), a.ContentType, a.Size)
	}
	return b.String()
}
