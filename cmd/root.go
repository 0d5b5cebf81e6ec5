package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Beastly713/sharesplit/pkg/config"
	"github.com/Beastly713/sharesplit/pkg/dealer"
	"github.com/Beastly713/sharesplit/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	fs         afero.Fs
	configFile string

	cfg     *config.Config
	logger  *logging.Logger
	dealer  *dealer.Dealer
	logFile afero.File
}

// setup resolves configuration for the command being executed and builds
// the logger and dealer from it.
func (a *app) setup(cmd *cobra.Command) error {
	loader := config.NewLoader(a.fs)
	if err := loader.BindFlags(cmd.Flags(),
		config.KeyShares,
		config.KeyThreshold,
		config.KeyHeaderless,
		config.KeyOutput,
		config.KeyLogLevel,
		config.KeyLogFile,
	); err != nil {
		return err
	}

	cfg, err := loader.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	if cfg.LogFile != "" {
		f, err := a.fs.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.logger = logging.NewLogger(level, cmd.ErrOrStderr(), f)
	} else {
		a.logger = logging.NewLogger(level, cmd.ErrOrStderr(), nil)
	}

	if cfg.ConfigFileUsed != "" {
		a.logger.Debug("using configuration file", "path", cfg.ConfigFileUsed)
	}

	a.dealer = dealer.New(dealer.WithLogger(a.logger))
	return nil
}

func (a *app) teardown() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// NewRootCmd builds the command tree on the real filesystem.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}

	rootCmd := &cobra.Command{
		Use:   "sharesplit",
		Short: "Split a secret into shares with Shamir's Secret Sharing",
		Long: `sharesplit splits a text secret into N shares so that any T of them
(the threshold) recover it, while fewer than T reveal nothing about it.

Shares are printed as base64 tokens, one per line, ready to hand out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default is $HOME/.sharesplit.yaml)")
	rootCmd.PersistentFlags().String(config.KeyLogLevel, "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String(config.KeyLogFile, "",
		"also write JSON logs to this file")

	rootCmd.AddCommand(newSplitCmd(a))
	rootCmd.AddCommand(newCombineCmd(a))
	rootCmd.AddCommand(newInteractiveCmd(a))

	for _, c := range rootCmd.Commands() {
		a.logErrors(c)
	}

	return rootCmd
}

// logErrors records a failed run in the log and closes the log file,
// since cobra skips PersistentPostRunE once RunE has failed.
func (a *app) logErrors(cmd *cobra.Command) {
	runE := cmd.RunE
	if runE == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := runE(cmd, args)
		if err == nil {
			return nil
		}
		if a.logger != nil {
			a.logger.Error(err, "command", cmd.Name())
		}
		if cerr := a.teardown(); cerr != nil {
			return errors.Join(err, fmt.Errorf("failed to close log file: %w", cerr))
		}
		return err
	}
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
