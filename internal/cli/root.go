// Package cli wires configuration, logging and the label check service into
// the label-verify command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ironsheep/label-verify/internal/config"
	"github.com/ironsheep/label-verify/internal/labelcheck"
	"github.com/ironsheep/label-verify/internal/logging"
	"github.com/ironsheep/label-verify/internal/ocr"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // a label did not verify
	ExitError  = 2 // bad flags, configuration or I/O
)

// errLabelFailed signals a completed check whose label did not verify.
var errLabelFailed = errors.New("label verification failed")

// newExtractor builds the OCR backend; tests replace it.
var newExtractor = ocr.New

// globalOptions are flags shared by every subcommand.
type globalOptions struct {
	envFiles   []string
	debug      bool
	logJSON    bool
	backend    string
	language   string
	ocrTimeout time.Duration
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringSliceVar(&o.envFiles, "env-file", nil, "Read settings from these .env files (default: ./.env if present)")
	f.BoolVar(&o.debug, "debug", false, "Enable debug logging (same as "+config.EnvLogLevel+"=debug)")
	f.BoolVar(&o.logJSON, "log-json", false, "Write log lines as JSON")
	f.StringVar(&o.backend, "ocr-backend", "", "OCR backend: tesseract|azure (default from "+config.EnvOCRBackend+")")
	f.StringVar(&o.language, "ocr-language", "", "Tesseract language code, e.g. eng or eng+fra")
	f.DurationVar(&o.ocrTimeout, "ocr-timeout", 0, "Maximum time for one OCR call, e.g. 30s")
}

// loadConfig reads the environment and applies flags that were set.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Log.Debug = o.debug
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = o.logJSON
	}
	if flags.Changed("ocr-backend") {
		cfg.OCR.Backend = o.backend
	}
	if flags.Changed("ocr-language") {
		cfg.OCR.Language = o.language
	}
	if flags.Changed("ocr-timeout") {
		cfg.OCR.Timeout = o.ocrTimeout
	}
	return cfg, cfg.Validate()
}

// app holds what a subcommand needs once configuration is loaded.
type app struct {
	cfg    *config.Config
	logger *logging.Logger
	svc    *labelcheck.Service
}

func (a *app) Close() {
	a.logger.Close()
}

// setup loads configuration and builds the logger and service. When quiet is
// set, only debug mode produces log output.
func (o *globalOptions) setup(cmd *cobra.Command, quiet bool) (*app, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.Nop()
	if !quiet || cfg.Log.Debug {
		logger, err = logging.New(logging.Options{
			Debug:  cfg.Log.Debug,
			JSON:   cfg.Log.JSON,
			Output: cmd.ErrOrStderr(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	ex, err := newExtractor(cfg.OCR)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to create OCR backend: %w", err)
	}

	svc := labelcheck.New(ex,
		labelcheck.WithLogger(logger),
		labelcheck.WithTimeout(cfg.OCR.Timeout),
	)

	logger.Debug("label-verify starting",
		"version", buildVersion,
		"commit", buildCommit,
		"ocr_backend", ex.Name())

	return &app{cfg: cfg, logger: logger, svc: svc}, nil
}

// NewRootCmd builds the command tree. Running it without a subcommand starts
// the MCP server.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "label-verify",
		Short: "Verify alcohol beverage labels against their declared fields",
		Long: `label-verify reads a label photo with OCR and checks that the brand name,
product class, alcohol content and net contents declared on the application
form appear on the label, together with the exact government warning.

Examples:
	# Run as an MCP server over stdio (default)
	label-verify

	# Serve the HTTP API
	label-verify serve --port 5000

	# Check a label from the command line
	label-verify check label.jpg --brand "Old Tom Distillery" --abv 45 --net "750 mL"

	# Print build info
	label-verify version

Environment:
	` + config.EnvLogLevel + `=debug       Enable debug logging
	` + config.EnvOCRBackend + `     tesseract (default) or azure
	` + config.EnvAzureEndpoint + `, ` + config.EnvAzureKey + `   Azure Computer Vision credentials
	` + config.EnvPort + `                         HTTP port (default 5000)

Logs are written to stderr; stdout carries MCP traffic or command output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(cmd, opts)
		},
	}
	opts.register(root)

	root.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newMCPCmd(opts),
		newServeCmd(opts),
		newCheckCmd(opts),
		newVersionCmd(),
	)
	return root
}

// SetBuildInfo records values injected with -ldflags.
func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}
}

// BuildInfo returns the values recorded by SetBuildInfo.
func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errLabelFailed):
		return ExitFailed
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
}

// Execute runs the command line with the process arguments and exits.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}
