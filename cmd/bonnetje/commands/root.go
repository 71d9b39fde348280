package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bonnetje/internal/app"
)

type options struct {
	deps app.Deps

	configFile string
	envFile    string
	logLevel   string
	logFormat  string
}

// Execute runs the CLI with process signals wired to cancellation.
func Execute(deps app.Deps) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRoot(deps).ExecuteContext(ctx)
}

// NewRoot builds the command tree.
func NewRoot(deps app.Deps) *cobra.Command {
	o := &options{deps: deps}

	root := &cobra.Command{
		Use:          "bonnetje",
		Short:        "Print receipts published on an MQTT topic",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runDaemon(cmd)
		},
	}

	root.PersistentFlags().StringVar(&o.configFile, "config", "", "YAML config file (optional)")
	root.PersistentFlags().StringVar(&o.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(runCmd(o), printCmd(o), publishCmd(o))
	return root
}

// wire loads the config, applies log flags and builds the dependency graph.
func (o *options) wire(cmd *cobra.Command, printerOnly bool) (*app.Wire, error) {
	cfg, err := app.Load(app.LoadOptions{
		ConfigFile:  o.configFile,
		EnvFile:     o.envFile,
		PrinterOnly: printerOnly,
	})
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	logger, err := app.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return app.NewWire(cfg, logger, o.deps)
}
