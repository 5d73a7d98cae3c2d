package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/rfm/internal/app"
	"github.com/kk-code-lab/rfm/internal/config"
	"github.com/kk-code-lab/rfm/internal/logging"
	"github.com/kk-code-lab/rfm/internal/shellsetup"
)

// options holds the flags shared by every command.
type options struct {
	configPath string
	choosedir  string
	showHidden bool
	logLevel   string
}

// NewRootCmd builds the rfm command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "rfm [path]",
		Short: "Tabbed three-pane terminal file manager",
		Long: `rfm browses directories in three panes: the parent, the current directory
and a preview of the entry under the cursor. Copy, move, link and delete
operations run in a background queue while you keep browsing.`,
		Example: `  rfm
  rfm ~/src --show-hidden
  rfm --choosedir /tmp/rfm-dir     # write the last directory on Q
  eval "$(rfm setup bash)"`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) == 1 {
				start = args[0]
			}
			return runBrowser(cmd, opts, start)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVar(&opts.showHidden, "show-hidden", false, "show dot files in new tabs")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.choosedir, "choosedir", "", "write the final directory to `FILE` when quitting with Q")

	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newSetupCmd())

	return cmd
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("show-hidden") {
		cfg.Display.ShowHidden = opts.showHidden
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(opts.logLevel)
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	return cfg, nil
}

func runBrowser(cmd *cobra.Command, opts *options, start string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{Level: cfg.Logging.Level, Output: cfg.Logging.Output}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
	}
	defer func() { _ = logging.Sync() }()

	app, err := apppkg.NewApplication(apppkg.Options{StartPath: start, Config: cfg})
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	app.Run()
	_ = app.Close()

	return writeChosenDir(opts.choosedir, app.ChosenDir())
}

// writeChosenDir records dir for the shell wrapper. Nothing is written when
// rfm exits without Q, so the wrapper leaves the shell where it was.
func writeChosenDir(file, dir string) error {
	if file == "" || dir == "" {
		return nil
	}
	if err := os.WriteFile(file, []byte(dir), 0o600); err != nil {
		return fmt.Errorf("write choosedir: %w", err)
	}
	return nil
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return config.Dump(cmd.OutOrStdout(), cfg)
		},
	}
}

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup [shell]",
		Short: "Print a shell function that cds to the last directory on Q",
		Long: `setup prints a wrapper function for bash, zsh, sh, ksh, fish or pwsh.
Without an argument the shell is detected from the parent process or $SHELL.`,
		Example: `  eval "$(rfm setup)"
  rfm setup fish | source`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := ""
			if len(args) == 1 {
				shell = args[0]
			}
			return shellsetup.Write(cmd.OutOrStdout(), shell, shellsetup.Config{})
		},
	}
}
