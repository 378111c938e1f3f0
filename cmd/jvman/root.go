package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/config"
	"github.com/ZebulonRouseFrantzich/jvman/internal/events"
	"github.com/ZebulonRouseFrantzich/jvman/internal/install"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/platform"
)

// app carries the global flags and the state built from them.
type app struct {
	configPath string
	logLevel   string
	quiet      bool
	verbose    bool

	cfg      *config.Config
	log      logging.Logger
	detector platform.Detector
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{detector: platform.NewDetector()}

	cmd := &cobra.Command{
		Use:   "jvman",
		Short: "Download and install JDK builds",
		Long: `jvman fetches JDK archives from the Adoptium catalog (or any URL),
streams them to disk and unpacks them into a local install directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("jvman {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $JVMAN_HOME/config.lua)")
	flags.StringVar(&a.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "hide progress output")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "show full config error details")

	cmd.AddCommand(
		newDownloadCmd(a),
		newExtractCmd(a),
		newInstallCmd(a),
		newListCmd(a),
		newUninstallCmd(a),
		newSearchCmd(a),
		newUseCmd(a),
		newEnvCmd(a),
		newActivateCmd(a),
		newStatusCmd(a),
		newSetupShellCmd(),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return cmd, a
}

// setup loads the config and builds the logger, which it stores in the
// command context for logging.FromContext. Commands that don't need either
// skip it.
func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		if err := a.load(cmd.Context(), cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	cmd.SetContext(logging.WithContext(cmd.Context(), a.log))
	return nil
}

func (a *app) load(ctx context.Context, stderr io.Writer) error {

	parser := config.NewParser(a.detector, nil)
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = parser.ParseFile(ctx, a.configPath)
	} else {
		cfg, err = parser.Load(ctx)
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		if !logging.ValidLevel(a.logLevel) {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		cfg.LogLevel = a.logLevel
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, Output: stderr, Prefix: "jvman"})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// session wires a manager to a fresh event bus with a progress display.
// close drains the bus and must be called before printing results.
type session struct {
	manager *install.Manager
	close   func()
}

func (a *app) session(cmd *cobra.Command) (*session, error) {
	if err := a.setup(cmd); err != nil {
		return nil, err
	}

	bus := events.NewBus()
	if !a.quiet {
		bus.Subscribe(newProgress(cmd.ErrOrStderr()).Handle)
	}

	m, err := install.NewManager(install.Options{
		Config:   a.cfg,
		Bus:      bus,
		Logger:   logging.FromContext(cmd.Context()),
		Platform: a.detector,
	})
	if err != nil {
		bus.Close()
		return nil, err
	}
	return &session{manager: m, close: bus.Close}, nil
}
