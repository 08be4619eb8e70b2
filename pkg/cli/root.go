package cli

import (
	"costdb/pkg/config"
	"costdb/pkg/logging"
	"costdb/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	fs         afero.Fs
	configPath string
	logLevel   string
	catalog    string
	progress   bool
	metrics    bool

	conf     *config.Config
	gatherer *prometheus.Registry
}

// NewRootCommand builds the costdb command tree reading from the OS
// filesystem.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	opts := &globalOptions{fs: fs}

	root := &cobra.Command{
		Use:           "costdb",
		Short:         "costdb collects table statistics and orders joins by estimated cost.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if opts.metrics {
				err = printMetrics(cmd.OutOrStdout(), opts.gatherer)
			}
			return multierr.Append(err, logging.Close())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.catalog, "catalog", "", "path to the catalog manifest (TOML)")
	flags.BoolVar(&opts.progress, "progress", false, "show a spinner while statistics are computed")
	flags.BoolVar(&opts.metrics, "metrics", false, "print the collected metrics after the command")

	root.AddCommand(
		newStatsCommand(opts),
		newOrderCommand(opts),
	)
	return root
}

func (o *globalOptions) setup(cmd *cobra.Command) error {
	conf := config.NewConfig()
	if o.configPath != "" {
		if err := conf.Load(o.configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("log-level") {
		conf.Log.Level = o.logLevel
	}
	o.conf = conf

	o.gatherer = prometheus.NewRegistry()
	metrics.RegisterMetrics(o.gatherer)

	// a previous command in the same process may still own the logger
	if err := logging.Close(); err != nil {
		return err
	}
	return logging.Init(conf.Log.ToLogConfig())
}
