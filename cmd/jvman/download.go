package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDownloadCmd(a *app) *cobra.Command {
	var (
		dir    string
		memory bool
	)

	cmd := &cobra.Command{
		Use:   "download <url>",
		Short: "Download an archive without installing it",
		Long: `Stream <url> into the download directory. The response is written to a
".part" file next to the target and renamed once complete.`,
		Example: "  jvman download https://api.adoptium.net/v3/binary/latest/21/ga/linux/x64/jdk/hotspot/normal/eclipse",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			if memory {
				a.cfg.InMemory = true
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			st, err := s.manager.Download(cmd.Context(), args[0], dir)
			s.close()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), st.FinalPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "destination directory (default from config)")
	cmd.Flags().BoolVar(&memory, "memory", false, "buffer the archive in memory instead of a .part file")
	return cmd
}
