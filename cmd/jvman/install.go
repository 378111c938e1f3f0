package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/jvman/internal/install"
)

func newInstallCmd(a *app) *cobra.Command {
	var (
		url   string
		flags queryFlags
	)

	cmd := &cobra.Command{
		Use:   "install [feature-version]",
		Short: "Download and install a JDK",
		Long: `Resolve a build through the catalog, download it and unpack it into the
install directory. Without a feature version the most recent LTS is used.
With --url the catalog is skipped and the archive at that URL is installed.`,
		Example: `  jvman install            # latest LTS for this machine
  jvman install 17 --image jre
  jvman install --url https://example.com/jdk.tar.gz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if url != "" && len(args) > 0 {
				return fmt.Errorf("--url cannot be combined with a feature version")
			}
			q, err := flags.query(args)
			if err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}

			var rec *install.Record
			if url != "" {
				rec, err = s.manager.Install(cmd.Context(), url)
			} else {
				rec, err = s.manager.InstallRelease(cmd.Context(), q)
			}
			s.close()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s to %s\n", rec.Name, rec.Path(s.manager.InstallDir()))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "install the archive at this URL instead of querying the catalog")
	flags.register(cmd.Flags())
	return cmd
}
