package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vnmchuo/openrouter-cli/config"
	"github.com/vnmchuo/openrouter-cli/internal/catalog"
	"github.com/vnmchuo/openrouter-cli/internal/dispatch"
	"github.com/vnmchuo/openrouter-cli/internal/provider"
	"github.com/vnmchuo/openrouter-cli/internal/provider/openrouter"
	"github.com/vnmchuo/openrouter-cli/internal/render"
	"github.com/vnmchuo/openrouter-cli/internal/telemetry"
	"github.com/vnmchuo/openrouter-cli/pkg/ratelimit"
)

const (
	serviceName = "openrouter-cli"
	version     = "0.1.0"

	modeChat      = "chat"
	modeEmbedding = "embedding"
)

var modes = []string{modeChat, modeEmbedding}

type options struct {
	mode    string
	model   string
	input   string
	verbose bool
}

type app struct {
	out        io.Writer
	errOut     io.Writer
	catalog    *catalog.Catalog
	loadConfig func() (*config.Config, error)
	noColor    bool
	sleep      func(time.Duration) // nil means time.Sleep
}

func main() {
	a := &app{
		out:        os.Stdout,
		errOut:     os.Stderr,
		catalog:    catalog.Default(),
		loadConfig: config.Load,
		noColor:    color.NoColor,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "openrouter",
		Short:        "OpenRouter API CLI Interface",
		Long:         "Send a single chat completion or embedding request to OpenRouter and print the estimated cost.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Version:      version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), opts)
		},
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	cmd.Flags().StringVar(&opts.mode, "mode", "", "Select API mode: "+strings.Join(modes, " or "))
	cmd.Flags().StringVar(&opts.model, "model", "", "Choose the LLM model ("+strings.Join(a.catalog.Aliases(), ", ")+")")
	cmd.Flags().StringVar(&opts.input, "input", "", "User input")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log request details to stderr")
	for _, name := range []string{"mode", "model", "input"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (a *app) run(ctx context.Context, opts options) error {
	// 1. Validate flags
	if !slices.Contains(modes, opts.mode) {
		return fmt.Errorf("invalid mode %q (choose from %s)", opts.mode, strings.Join(modes, ", "))
	}
	entry, err := a.catalog.Resolve(opts.model)
	if err != nil {
		return fmt.Errorf("%w (choose from %s)", err, strings.Join(a.catalog.Aliases(), ", "))
	}

	// 2. Load config
	cfg, err := a.loadConfig()
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprintf(a.out, "Error: %s is not set.\n", config.APIKeyEnv)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 3. Init telemetry
	tracer, shutdownTracer, err := telemetry.InitTracer(serviceName, version, cfg, a.errOut)
	if err != nil {
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	defer shutdownTracer()

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(a.errOut, "[openrouter] ", log.LstdFlags)
	}

	// 4. Init transport
	sender := dispatch.NewBreakerSender("openrouter", provider.NewHTTPSender(
		cfg.APIKey,
		cfg.BaseURL,
		provider.WithAttribution(cfg.AppURL, cfg.AppTitle),
	))

	// 5. Init cooldown
	cooldown := ratelimit.NewCooldown(cfg.RateLimitWait)
	if a.sleep != nil {
		cooldown = ratelimit.NewTestCooldown(cfg.RateLimitWait, a.sleep)
	}

	// 6. Dispatch
	d := dispatch.NewDispatcher(
		openrouter.New(sender),
		a.catalog,
		render.New(a.out, a.noColor),
		cooldown,
		tracer,
		logger,
	)
	logger.Printf("mode=%s alias=%s model=%s base_url=%s", opts.mode, entry.Alias, entry.WireID, cfg.BaseURL)

	switch opts.mode {
	case modeChat:
		d.ChatCompletion(ctx, entry.WireID, opts.input)
	case modeEmbedding:
		d.EmbedText(ctx, entry.WireID, opts.input)
	}
	return nil
}
