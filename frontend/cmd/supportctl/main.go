package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/frontend/internal/locale"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

type rootOptions struct {
	configFolder string
	language     string
}

// app is everything a subcommand needs after config is loaded.
type app struct {
	cfg    *config.Config
	client *apiclient.APIClient
	locale *locale.Context
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "supportctl",
		Short: "Submit support cases, upload attachments and chat with support",
		Long: `supportctl talks to the support webhooks and the upload proxy.

Examples:
  supportctl submit --flow technical --email me@example.com --customer-number 42 \
      --case-type automower --text "Blade motor stops" --file photo.jpg
  supportctl upload invoice.pdf
  supportctl chat "Where is my order?"
  supportctl case-types technical`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configFolder, "config_folder", "frontend/config", "path to folder with configs")
	root.PersistentFlags().StringVar(&opts.language, "lang", "", "interface language (defaults to default_language)")

	root.AddCommand(
		submitCmd(opts),
		uploadCmd(opts),
		chatCmd(opts),
		caseTypesCmd(),
	)
	return root
}

func (o *rootOptions) load() (*app, error) {
	cfg, err := config.Load(o.configFolder)
	if err != nil {
		return nil, err
	}
	// stdout carries command output
	logger.InitializeTo(os.Stderr, cfg.Public.Log.Level, cfg.Public.Log.JSON)

	loc := locale.New(cfg.Public.Languages, cfg.Public.DefaultLanguage)
	if o.language != "" && !loc.Set(o.language) {
		return nil, fmt.Errorf("unsupported language %q, choose one of %v", o.language, loc.Supported)
	}
	return &app{cfg: cfg, client: apiclient.New(cfg), locale: loc}, nil
}

func newProgressBar(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
