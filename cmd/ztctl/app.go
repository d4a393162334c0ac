package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nsfzt/ztctl/internal/central"
	"github.com/nsfzt/ztctl/internal/config"
	"github.com/nsfzt/ztctl/internal/mapper"
	"github.com/nsfzt/ztctl/internal/netsvc"
	"github.com/nsfzt/ztctl/internal/output"
)

// Flag names shared between commands and settings resolution.
const (
	flagAPIToken  = "api-token"
	flagAPIURL    = "api-url"
	flagNetworkID = "network-id"
	flagMemberID  = "member-id"
)

// app holds process-level dependencies and global flag values.
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	now    func() time.Time
	prompt *prompter

	// Global flags
	verbose    int
	outputFmt  string
	apiToken   string
	apiURL     string
	configPath string
	profile    string
	dotEnvPath string
	timeout    time.Duration
	rate       float64
	burst      int
	timezone   string

	// Network flags
	networkID string

	logger *zap.Logger
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		now:    time.Now,
		prompt: newTerminalPrompter(os.Stdin, os.Stderr),
		logger: zap.NewNop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ztctl",
		Short: "Manage ZeroTier network members",
		Long: `ztctl lists, authorizes, deauthorizes and edits the members of a
ZeroTier network through the Central REST API.

Connection settings come from flags, NSF_ZEROTIER_* environment variables,
a .env file in the working directory, or a credentials file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbose, "verbose", "v", "Verbosity level (-v info, -vv debug)")
	flags.StringVarP(&a.outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	flags.StringVar(&a.apiToken, flagAPIToken, "", "Central API access token (env "+config.EnvAPIToken+")")
	flags.StringVar(&a.apiURL, flagAPIURL, "", "Central API root (env "+config.EnvAPIURL+", default "+central.DefaultBaseURL+")")
	flags.StringVar(&a.configPath, "config", config.DefaultFilePath(), "Credentials file")
	flags.StringVar(&a.profile, "profile", config.DefaultProfile, "Credentials file profile")
	flags.StringVar(&a.dotEnvPath, "env-file", config.DotEnvFile, "Environment file loaded before reading NSF_ZEROTIER_* variables")
	flags.DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (0 means none)")
	flags.Float64Var(&a.rate, "rate", central.DefaultOptions().RequestsPerSecond, "Maximum API requests per second (negative means unlimited)")
	flags.IntVar(&a.burst, "burst", central.DefaultOptions().Burst, "API requests allowed back to back before --rate applies")
	flags.StringVar(&a.timezone, "timezone", "Local", "Time zone used to present timestamps (IANA name, UTC or Local)")

	rootCmd.AddCommand(statusCmd(a))
	rootCmd.AddCommand(networkCmd(a))

	return rootCmd
}

// setup runs before every command: loads the env file and builds the logger.
func (a *app) setup() error {
	if _, err := output.ParseFormat(a.outputFmt); err != nil {
		return err
	}
	if a.rate == 0 {
		return fmt.Errorf("invalid --rate 0: use a negative value for unlimited")
	}
	if a.burst < 1 {
		return fmt.Errorf("invalid --burst %d: must be at least 1", a.burst)
	}
	if a.timeout < 0 {
		return fmt.Errorf("invalid --timeout %s: must not be negative", a.timeout)
	}
	if err := config.LoadDotEnv(a.dotEnvPath); err != nil {
		return err
	}
	a.logger = newLogger(a.verbose, a.stderr)
	return nil
}

// settings resolves connection settings: flag > env > credentials file > default.
func (a *app) settings(flags *pflag.FlagSet) (config.Settings, error) {
	fromFlags := config.Settings{APIToken: a.apiToken, APIURL: a.apiURL, NetworkID: a.networkID}
	if f := flags.Lookup(flagMemberID); f != nil {
		fromFlags.MemberID = f.Value.String()
	}

	fromFile, err := config.FromFile(a.configPath, a.profile)
	if err != nil {
		return config.Settings{}, err
	}

	return fromFlags.
		Merge(config.FromEnv(a.getenv)).
		Merge(fromFile).
		Merge(config.Settings{APIURL: central.DefaultBaseURL}), nil
}

func (a *app) location() (*time.Location, error) {
	switch a.timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid --timezone %q: %w", a.timezone, err)
	}
	return loc, nil
}

func (a *app) printer() *output.Printer {
	format, _ := output.ParseFormat(a.outputFmt)
	return output.NewPrinter(a.stdout, format)
}

// resolve resolves settings and prompts for the required values that no
// source supplied, in the order token, network id, member id.
func (a *app) resolve(flags *pflag.FlagSet, needNetwork, needMember bool) (config.Settings, error) {
	s, err := a.settings(flags)
	if err != nil {
		return s, err
	}
	if s.APIToken == "" {
		if s.APIToken, err = a.prompt.AskSecret("API token", flagAPIToken, config.EnvAPIToken); err != nil {
			return s, err
		}
	}
	if needNetwork && s.NetworkID == "" {
		if s.NetworkID, err = a.prompt.Ask("Network id", flagNetworkID, config.EnvNetworkID); err != nil {
			return s, err
		}
	}
	if needMember && s.MemberID == "" {
		if s.MemberID, err = a.prompt.Ask("Member id", flagMemberID, config.EnvMemberID); err != nil {
			return s, err
		}
	}
	return s, nil
}

// openSession authenticates against Central.
func (a *app) openSession(ctx context.Context, s config.Settings) (*netsvc.Session, error) {
	loc, err := a.location()
	if err != nil {
		return nil, err
	}

	clientOpts := central.DefaultOptions()
	clientOpts.BaseURL = s.APIURL
	clientOpts.Token = s.APIToken
	clientOpts.Timeout = a.timeout
	clientOpts.RequestsPerSecond = a.rate
	clientOpts.Burst = a.burst
	clientOpts.UserAgent = "ztctl/" + version
	clientOpts.Logger = a.logger

	return netsvc.Open(ctx, clientOpts, netsvc.SessionOptions{
		Mapper: mapper.New(loc),
		Logger: a.logger,
	})
}

// openNetwork authenticates and opens the network named in s.
func (a *app) openNetwork(ctx context.Context, s config.Settings) (*netsvc.NetworkContext, error) {
	session, err := a.openSession(ctx, s)
	if err != nil {
		return nil, err
	}
	return session.ForNetwork(ctx, s.NetworkID)
}
