package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rampup-app/rampup/internal/api"
	"github.com/rampup-app/rampup/internal/store"
	"github.com/rampup-app/rampup/internal/tui"
	"github.com/spf13/cobra"
)

var dbPath string

func main() {
	defaultDB, err := store.DefaultDBPath()
	if err != nil {
		defaultDB = "rampup.db"
	}

	rootCmd := &cobra.Command{
		Use:   "rampup",
		Short: "Study session tracker with a Jalali calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			app := tui.NewApp(s)
			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "database path")
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(dbPath)
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			server := api.New(s, addr)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}
