package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/jsxdom/internal/config"
	"github.com/vango-dev/jsxdom/internal/errors"
	"github.com/vango-dev/jsxdom/pkg/jsx"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
   _         _
  (_)____ __| |___  _ __
  | (_-< \ / _' / _ \| '  \
 _/ /__/_\_\__,_\___/|_|_|_|
|__/
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	configPath string
	verbose    bool
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "jsxdom",
		Short: "Build DOM markup from JSX-style descriptors",
		Long: `jsxdom turns JSX-style element descriptors into DOM trees.

Descriptors are JSON documents of the form
  {"type": "div", "props": {"className": "x"}, "children": ["Hello"]}

Commands:
  • render   build a document to markup, optionally into existing markup
  • serve    preview documents in a browser with live reload
  • publish  upload rendered documents to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to jsxdom.json (default: search upward from the working directory)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		renderCmd(flags),
		serveCmd(flags),
		publishCmd(flags),
		versionCmd(),
	)
	return cmd
}

// env is the state every command starts from.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry jsx.Registry
	builder  *jsx.Builder
}

// loadEnv loads the configuration and builds the logger and component
// registry from it.
func loadEnv(cmd *cobra.Command, flags *globalFlags) (*env, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg, flags.verbose)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(cfg.Components))
	for name := range cfg.Components {
		files[name], _ = cfg.ComponentPath(name)
	}
	registry := jsx.Registry{}
	registry.RegisterFiles(files)

	return &env{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		builder:  jsx.NewBuilder(jsx.WithLogger(logger)),
	}, nil
}

// newLogger creates a text logger at the configured level. Verbose forces
// debug.
func newLogger(w io.Writer, cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, errors.New("E140").WithDetail("logLevel: " + err.Error())
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// usageError reports invalid command usage.
func usageError(format string, args ...any) error {
	return errors.Errorf("E180", format, args...)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
