package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"fbref-scraper/internal/acquisition"
	"fbref-scraper/internal/config"
	"fbref-scraper/internal/known"
	"fbref-scraper/internal/resolver"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 130
)

var (
	errNoMatches = errors.New("no matches found")
	errExhausted = errors.New("network and browser automation exhausted")
)

var (
	configPath *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:           "fbref",
	Short:         "fbref scrapes recent match statistics of football teams from fbref.com.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", config.DefaultFile, "The json5 config file, a .local variant overrides it.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information.")
}

// ExecuteContext runs the CLI and returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	return exitCode(ctx, err, os.Stderr)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(*configPath, cmd.Flags().Changed("config"))
}

func loadKnown(cfg config.Config) (*known.Table, error) {
	table := known.Default()
	if cfg.TeamsFile == "" {
		return table, nil
	}
	if err := table.LoadFile(cfg.TeamsFile); err != nil {
		return nil, err
	}
	return table, nil
}

func hint(err error) string {
	switch {
	case errors.Is(err, resolver.ErrInvalidTeamURL):
		return "team URLs look like https://fbref.com/en/squads/<id>/<Name>-Stats"
	case errors.Is(err, resolver.ErrTeamNotFound):
		return "check the spelling, pass the team's fbref URL with --url, or run `fbref teams` to list known teams"
	case errors.Is(err, errNoMatches):
		return "the team exists but its match log had no rows, use --use-mock to fall back to offline data"
	case errors.Is(err, errExhausted), errors.Is(err, acquisition.ErrExhausted):
		return "fbref.com kept blocking requests, wait before retrying, raise --rate-limit, or use --use-mock / --force-mock"
	}
	return ""
}

func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "operation cancelled by user")
		return exitCancelled
	}
	fmt.Fprintln(stderr, "error:", err)
	if h := hint(err); h != "" {
		fmt.Fprintln(stderr, "hint:", h)
	}
	return exitFailure
}
