package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dl-alexandre/chspool/internal/config"
	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/dl-alexandre/chspool/pkg/version"
	"github.com/spf13/cobra"
)

var (
	globalFlags types.GlobalFlags
	logger      logging.Logger = logging.NewNoOpLogger()
	// transport is nil unless --debug is set
	transport http.RoundTripper
)

var reportFlags struct {
	format      string
	url         string
	config      string
	keyringUser string
	exclude     []string
}

var rootCmd = &cobra.Command{
	Use:   "chspool FILENAME",
	Short: "Report the size of ClickHouse Distributed table spool directories",
	Long: `chspool asks a ClickHouse server for every table using the Distributed
engine, measures how many bytes are still queued in each table's local data
directory, and writes the result to FILENAME.

Query failures are printed and leave FILENAME untouched; with --strict they
also make the command exit non-zero.

A FILENAME equal to a subcommand name (show, credentials, version, help)
runs that subcommand instead; write it as ./show to get a report file.`,
	Version:       version.Version,
	Args:          exactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logConfig := logging.DefaultLogConfig()
		logConfig.OutputFile = globalFlags.LogFile
		logConfig.EnableConsole = !globalFlags.Quiet
		logConfig.EnableDebug = globalFlags.Debug
		logConfig.EnableColor = true
		if globalFlags.Verbose {
			logConfig.Level = logging.DEBUG
		}

		l, debugTransport, err := logging.NewDebugLoggerWithTransport(logConfig)
		if err != nil {
			return invalidArgument(fmt.Errorf("failed to initialize logger: %w", err))
		}
		logger = l
		transport = nil
		if debugTransport != nil {
			transport = debugTransport
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Close()
	},
	RunE: runRoot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "Print the version, commit and build time of chspool",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		if globalFlags.JSON {
			out := NewOutputWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), true, globalFlags.Quiet, globalFlags.Verbose)
			return out.WriteSuccess("version", info)
		}
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&reportFlags.format, "format", string(types.OutputFormatJSON), "Output file format (json, table)")
	rootCmd.Flags().StringVar(&reportFlags.url, "url", utils.DefaultURL, "ClickHouse HTTP endpoint")
	rootCmd.Flags().StringVar(&reportFlags.config, "config", "", "JSON file with username and password")
	rootCmd.Flags().StringVar(&reportFlags.keyringUser, "keyring-user", "", "Use the password stored in the system keyring for this user")
	rootCmd.Flags().StringArrayVar(&reportFlags.exclude, "exclude", nil, "Skip spool files matching this pattern (repeatable)")

	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Debug, "debug", false, "Log every HTTP request")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "Print command results as JSON")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Strict, "strict", false, "Exit non-zero when the metadata query fails")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return invalidArgument(err)
	})

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// exactArgs is cobra.ExactArgs with the error mapped to an invalid argument
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return invalidArgument(err)
		}
		return nil
	}
}

func invalidArgument(err error) error {
	return utils.WrapAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument, err.Error()).Build(), err)
}

// optionsFromFlags merges command line flags, CHSPOOL_* variables and
// defaults, in that order of precedence
func optionsFromFlags(cmd *cobra.Command, outputPath string) (config.Options, error) {
	opts := config.DefaultOptions()
	opts.OutputPath = outputPath
	opts.Format = types.OutputFormat(reportFlags.format)
	opts.URL = reportFlags.url
	opts.ConfigPath = reportFlags.config
	opts.KeyringUser = reportFlags.keyringUser
	opts.Exclude = reportFlags.exclude

	flags := cmd.Flags()
	opts = config.LoadEnv().Apply(opts, flags.Changed("url"), flags.Changed("format"), flags.Changed("config"))

	if err := opts.Validate(); err != nil {
		return opts, invalidArgument(err)
	}
	return opts, nil
}

// Execute runs the root command and exits with the code mapped from the
// returned error
func Execute() {
	os.Exit(execute(os.Stdout, os.Stderr))
}

func execute(stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return utils.ExitSuccess
	}
	reportError(stdout, stderr, rootCmd.Name(), err)
	// PersistentPostRunE is skipped when RunE fails
	_ = logger.Close()
	return utils.ExitCodeFor(err)
}

// reportError prints a fatal error: as a CLIOutput envelope on stdout in
// JSON mode, as a single line on stderr otherwise
func reportError(stdout, stderr io.Writer, command string, err error) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		appErr = utils.NewAppError(utils.NewCLIError(utils.ErrCodeUnknown, err.Error()).Build())
	}
	if globalFlags.JSON {
		out := NewOutputWriter(stdout, stderr, true, globalFlags.Quiet, globalFlags.Verbose)
		if writeErr := out.WriteError(command, appErr.CLIError); writeErr == nil {
			return
		}
	}
	fmt.Fprintf(stderr, "Error: %s\n", appErr.CLIError.Message)
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() types.GlobalFlags {
	return globalFlags
}

// GetLogger returns the global logger
func GetLogger() logging.Logger {
	return logger
}
