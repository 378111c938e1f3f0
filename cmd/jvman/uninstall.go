package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUninstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall <name>...",
		Aliases: []string{"rm"},
		Short:   "Remove installed JDKs",
		Long:    "Remove the directories recorded for each <name> (as shown by 'jvman list').",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			for _, name := range args {
				rec, err := s.manager.Uninstall(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", rec.Name)
			}
			return nil
		},
	}
}
