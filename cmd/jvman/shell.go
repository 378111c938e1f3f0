package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/install"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
	"github.com/ZebulonRouseFrantzich/jvman/internal/shell"
)

// resolveShell parses name, or detects the shell when name is empty.
func resolveShell(ctx context.Context, name string) (shell.ShellType, error) {
	if name != "" {
		return shell.ParseShell(name)
	}
	detected := shell.DetectShell(ctx)
	if !detected.Shell.IsValid() {
		return shell.ShellUnknown, fmt.Errorf("could not detect your shell; pass one of bash, zsh, fish")
	}
	return detected.Shell, nil
}

func newUseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the JDK that 'jvman activate' exports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.manager.SetDefault(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default JDK is now %s (%s)\n", rec.Name, rec.JavaHome(s.manager.InstallDir()))
			return nil
		},
	}
}

func newEnvCmd(a *app) *cobra.Command {
	var shellName string

	cmd := &cobra.Command{
		Use:   "env <name>",
		Short: "Print JAVA_HOME and PATH settings for an installed JDK",
		Long: `Print shell code that activates <name> in the current shell:

  eval "$(jvman env jdk-21.0.5+11)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sh, err := resolveShell(cmd.Context(), shellName)
			if err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.manager.Find(args[0])
			if err != nil {
				return err
			}
			script, err := shell.EnvScript(sh, rec.JavaHome(s.manager.InstallDir()))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}

	cmd.Flags().StringVar(&shellName, "shell", "", "target shell (default: detected)")
	return cmd
}

func newActivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "activate [bash|zsh|fish]",
		Short:     "Print shell code that activates the default JDK",
		Long:      "Print shell code for the default JDK. Prints nothing when no default is selected, so it is safe in startup files.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			sh, err := resolveShell(cmd.Context(), name)
			if err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			rec, err := s.manager.Default()
			if errors.Is(err, install.ErrNoDefault) {
				logging.FromContext(cmd.Context()).Debug("no default JDK selected")
				return nil
			}
			if err != nil {
				return err
			}

			script, err := shell.EnvScript(sh, rec.JavaHome(s.manager.InstallDir()))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
}

func newSetupShellCmd() *cobra.Command {
	var opts shell.SetupOptions

	cmd := &cobra.Command{
		Use:   "setup-shell [bash|zsh|fish]",
		Short: "Add 'jvman activate' to your shell startup file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			sh, err := resolveShell(cmd.Context(), name)
			if err != nil {
				return err
			}

			res, err := shell.Setup(sh, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case res.AlreadyPresent:
				fmt.Fprintf(out, "%s already activates jvman\n", res.RCFile)
			case opts.DryRun:
				fmt.Fprintf(out, "Would add to %s:\n  %s\n", res.RCFile, res.ActivationCommand)
			default:
				fmt.Fprintf(out, "Added to %s:\n  %s\n", res.RCFile, res.ActivationCommand)
				if res.BackupPath != "" {
					fmt.Fprintf(out, "Backup saved to %s\n", res.BackupPath)
				}
				fmt.Fprintln(out, "Restart your shell to pick up the change.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "show the change without writing it")
	cmd.Flags().BoolVar(&opts.Backup, "backup", true, "back up the startup file first")
	return cmd
}
