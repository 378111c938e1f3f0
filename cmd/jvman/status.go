package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/drift"
	"github.com/ZebulonRouseFrantzich/jvman/internal/install"
	"github.com/ZebulonRouseFrantzich/jvman/internal/logging"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the default JDK is the one your shell uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			baseline := drift.Baseline{InstallDir: s.manager.InstallDir()}
			rec, err := s.manager.Default()
			switch {
			case errors.Is(err, install.ErrNoDefault):
			case err != nil:
				return err
			default:
				baseline.DefaultName = rec.Name
				baseline.DefaultHome = rec.JavaHome(baseline.InstallDir)
			}

			report := drift.Detect(cmd.Context(), baseline)
			logging.FromContext(cmd.Context()).Debug("drift check", "result", report.DriftType)
			fmt.Fprint(cmd.OutOrStdout(), drift.FormatReport(report))
			return nil
		},
	}
}
