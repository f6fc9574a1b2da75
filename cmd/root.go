package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailsweep application
var rootCmd = &cobra.Command{
	Use:   "mailsweep",
	Short: "Collects attachments from a Microsoft 365 mailbox folder",
	Long: `mailsweep signs in to a Microsoft 365 mailbox with delegated
credentials, walks a mail folder through the Microsoft Graph API and
collects every attachment it finds.

Collected attachments can be dumped to a local directory (scrape) or
re-sent to another mailbox over SMTP (forward). Messages that were
already handled are tracked in a CSV ignore list so repeated runs only
pick up new mail.

Configuration comes from the environment:
  CLIENT_ID, TENANT_ID, USERNAME, PASSWORD   (required)
  MAIL_FOLDER, DUMP_DIR, HTTP_TIMEOUT,
  METRICS_ENABLED                            (optional)
  SMTP_SERVER, SMTP_PORT                     (forward only)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailsweep version %s\n" .Version}}`)

	// If no subcommand is provided, run the scrape command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "scrape")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newScrapeCmd())
	rootCmd.AddCommand(newForwardCmd())
	rootCmd.AddCommand(newVersionCmd())
}
