package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetclean/internal/admin"
	"github.com/JonMunkholm/sheetclean/internal/config"
	"github.com/JonMunkholm/sheetclean/internal/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage sessions saved in the database",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsResetCmd())

	return cmd
}

func newSessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			sessions, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tFILE\tROWS\tUPDATED")
			for _, s := range sessions {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
					s.ID, s.Title, s.FileName, len(s.Data), s.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
}

func newSessionsResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to delete all sessions without --yes")
			}
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := admin.ResetSessions(cmd.Context(), st)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sessions\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting every saved session")

	return cmd
}

// openStore connects to the database named by DATABASE_URL. Sessions only
// outlive a process in PostgreSQL, so there is no in-memory fallback here.
func openStore(cmd *cobra.Command) (store.Store, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !cfg.Database.Enabled() {
		return nil, errors.New("DATABASE_URL is not set")
	}

	pg, err := store.Open(cmd.Context(), store.PoolConfig{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		return nil, err
	}
	return pg, nil
}
