package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"fbref-scraper/internal/acquisition"
	"fbref-scraper/internal/components/telemetry"
	"fbref-scraper/internal/config"
	"fbref-scraper/internal/output"
	"fbref-scraper/internal/resolver"
	"fbref-scraper/internal/scrapers/fbref"
	"fbref-scraper/internal/synthetic"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	scrapeTeam      *string
	scrapeURL       *string
	scrapeMatches   *int
	scrapeRateLimit *float64
	scrapeOutput    *string
	scrapeStdout    *bool
	scrapeFormat    *string
	scrapeUseMock   *bool
	scrapeForceMock *bool
)

func init() {
	flags := scrapeCmd.Flags()
	scrapeTeam = flags.String("team", "", "Name of the team to scrape.")
	scrapeURL = flags.String("url", "", "fbref URL of the team to scrape.")
	scrapeMatches = flags.Int("matches", 7, "Number of recent matches to retrieve.")
	scrapeRateLimit = flags.Float64("rate-limit", 5.0, "Base delay between requests in seconds.")
	scrapeOutput = flags.String("output", "output.csv", "File to write the match rows to.")
	scrapeStdout = flags.Bool("stdout", false, "Write to stdout instead of --output.")
	scrapeFormat = flags.String("format", "", "One of csv, table, markdown, json. Guessed from --output when empty.")
	scrapeUseMock = flags.Bool("use-mock", false, "Fall back to offline data when the match log cannot be scraped.")
	scrapeForceMock = flags.Bool("force-mock", false, "Only use offline data, never touch the network.")

	scrapeCmd.MarkFlagsMutuallyExclusive("team", "url")
	scrapeCmd.MarkFlagsOneRequired("team", "url")
	scrapeCmd.MarkFlagsMutuallyExclusive("use-mock", "force-mock")
	scrapeCmd.MarkFlagsMutuallyExclusive("output", "stdout")

	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape (--team <name> | --url <url>) [--matches N] [--output <file> | --stdout]",
	Short: "Scrapes the recent matches of a team and writes them as rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := scrapeConfig(cmd)
		if err != nil {
			return err
		}
		telemetry.InitSlog(*verbose)
		tel := telemetry.SlogAPI{}

		ctx := cmd.Context()
		tracing, err := telemetry.Setup(ctx, "fbref-scraper", cfg.OtlpConfig())
		if err != nil {
			slog.Warn("tracing disabled", "err", err)
		}
		defer func() {
			if err := tracing.Shutdown(context.Background()); err != nil {
				slog.Warn("flush traces", "err", err)
			}
		}()

		res, err := scrape(ctx, cfg, tel)
		if err != nil {
			return err
		}
		return writeTeam(cmd, res)
	},
}

func scrapeConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("matches") {
		cfg.MatchLimit = *scrapeMatches
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimitDelay = *scrapeRateLimit
	}
	if *scrapeUseMock {
		cfg.Mode = string(resolver.ModeFallback)
	}
	if *scrapeForceMock {
		cfg.Mode = string(resolver.ModeOffline)
	}
	return cfg, cfg.Validate()
}

func scrape(ctx context.Context, cfg config.Config, tel telemetry.API) (resolver.Resolution, error) {
	mode, err := resolver.ParseMode(cfg.Mode)
	if err != nil {
		return resolver.Resolution{}, err
	}
	table, err := loadKnown(cfg)
	if err != nil {
		return resolver.Resolution{}, err
	}
	parser, err := fbref.NewParser(cfg.BaseURL, tel)
	if err != nil {
		return resolver.Resolution{}, err
	}

	var acquirer resolver.Acquirer
	if mode != resolver.ModeOffline {
		client, err := acquisition.NewClient(cfg.AcquisitionOptions(), tel)
		if err != nil {
			return resolver.Resolution{}, err
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				slog.Warn("close browser", "err", cerr)
			}
		}()
		acquirer = client
	}

	r := resolver.NewResolver(acquirer, parser, table, synthetic.Default(), mode, tel)
	req := resolver.Request{
		Identifier: *scrapeTeam,
		MatchLimit: cfg.MatchLimit,
	}
	if *scrapeURL != "" {
		req.Identifier = *scrapeURL
		req.IsURL = true
	}

	res, err := r.Resolve(ctx, req)
	if err != nil {
		return resolver.Resolution{}, err
	}

	switch res.Outcome() {
	case resolver.OutcomeExhausted:
		return resolver.Resolution{}, errors.Mark(
			errors.Wrapf(res.MatchLogErr, "%s", res.Team.Name),
			errExhausted,
		)
	case resolver.OutcomeNoMatches:
		return resolver.Resolution{}, errors.Wrapf(errNoMatches, "%s", res.Team.Name)
	}

	slog.Info(
		"found matches",
		"team", res.Team.Name,
		"matches", len(res.Team.Matches),
		"resolved_by", string(res.ResolvedBy),
		"source", string(res.MatchesFrom),
	)
	return res, nil
}

func writeTeam(cmd *cobra.Command, resolved resolver.Resolution) error {
	format := output.FormatForPath(*scrapeOutput)
	if *scrapeStdout {
		format = output.FormatCSV
	}
	if *scrapeFormat != "" {
		f, err := output.ParseFormat(*scrapeFormat)
		if err != nil {
			return err
		}
		format = f
	}

	var w io.Writer = cmd.OutOrStdout()
	if !*scrapeStdout {
		file, err := os.Create(*scrapeOutput)
		if err != nil {
			return errors.Wrapf(err, "create %s", *scrapeOutput)
		}
		defer file.Close()
		w = file
	}

	if err := output.Write(w, format, resolved.Team); err != nil {
		return err
	}
	if !*scrapeStdout {
		slog.Info("wrote match rows", "path", *scrapeOutput, "format", string(format))
	}
	return nil
}
