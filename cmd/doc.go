// Package cmd implements the command-line interface for mailsweep.
//
// This package provides the following commands:
//   - scrape: Dump attachments from the configured mail folder to disk
//   - forward: Re-send attachments from the configured mail folder over SMTP
//   - version: Display version information
//
// The scrape command is the default command when no subcommand is specified.
package cmd
