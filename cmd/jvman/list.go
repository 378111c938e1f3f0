package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/install"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed JDKs",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			records, err := s.manager.Installed()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No JDKs installed.")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "To install the latest LTS:")
				fmt.Fprintln(out, "  jvman install")
				return nil
			}
			return printRecords(out, records, s.manager.InstallDir())
		},
	}
}

func printRecords(out io.Writer, records []install.Record, installDir string) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tINSTALLED\tPATH")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, humanize.Bytes(uint64(r.Size)), humanize.Time(r.InstalledAt), r.Path(installDir))
	}
	return w.Flush()
}
