package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/catalog"
)

func newSearchCmd(a *app) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "search [feature-version]",
		Short: "Query the catalog",
		Long: `Without arguments, list the feature versions the catalog publishes.
With a feature version, list the newest builds matching the query flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.query(args)
			if err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				avail, err := s.manager.AvailableReleases(cmd.Context())
				if err != nil {
					return err
				}
				printAvailable(out, avail)
				return nil
			}

			releases, err := s.manager.Latest(cmd.Context(), q)
			if err != nil {
				return err
			}
			if len(releases) == 0 {
				fmt.Fprintf(out, "No builds found for feature version %d.\n", q.FeatureVersion)
				return nil
			}
			return printReleases(out, releases)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func printAvailable(out io.Writer, avail *catalog.AvailableReleases) {
	lts := make(map[int]bool, len(avail.LTSReleases))
	for _, v := range avail.LTSReleases {
		lts[v] = true
	}

	versions := make([]string, 0, len(avail.Releases))
	for _, v := range avail.Releases {
		s := strconv.Itoa(v)
		if lts[v] {
			s += " (LTS)"
		}
		versions = append(versions, s)
	}

	fmt.Fprintf(out, "Available feature versions: %s\n", strings.Join(versions, ", "))
	fmt.Fprintf(out, "Most recent LTS: %d\n", avail.MostRecentLTS)
	fmt.Fprintf(out, "Most recent feature release: %d\n", avail.MostRecentFeature)
}

func printReleases(out io.Writer, releases []catalog.Release) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RELEASE\tIMAGE\tPLATFORM\tSIZE\tPACKAGE")
	for _, r := range releases {
		fmt.Fprintf(w, "%s\t%s\t%s/%s\t%s\t%s\n", r.Name, r.ImageType, r.OS, r.Arch, humanize.Bytes(uint64(r.Size)), r.PackageName)
	}
	return w.Flush()
}
