package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archive> [dest]",
		Short: "Unpack an archive into a directory",
		Long: `Unpack <archive> into a staging directory, then move each top-level entry
into [dest], replacing entries of the same name. [dest] defaults to the
install directory.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}

			dest := s.manager.InstallDir()
			if len(args) == 2 {
				dest = args[1]
			}

			st, err := s.manager.Extract(cmd.Context(), args[0], dest)
			s.close()
			if err != nil {
				return err
			}

			for _, name := range st.Merged {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
