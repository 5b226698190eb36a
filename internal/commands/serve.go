package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"summaryedit/internal/app"
)

func addMCP(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server on stdio",
		Long: `Launch an MCP server that lets an agent open, edit, undo and export
meeting summaries. Payloads dropped into the inbox directory are opened too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(v)
			if err != nil {
				return err
			}
			return app.ServeMCP(a)
		},
	}
	topLevel.AddCommand(cmd)
}

func addWatch(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "open every summary payload written to the inbox directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(v)
			if err != nil {
				return err
			}
			return app.Watch(a)
		},
	}
	topLevel.AddCommand(cmd)
}

func addSessions(topLevel *cobra.Command, v *viper.Viper) {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "list saved editing sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(v)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := a.Startup(ctx); err != nil {
				return err
			}
			defer a.Shutdown(ctx)

			list, err := a.Sessions().List(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(list)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <session-id>",
		Short: "delete a saved session and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(v)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := a.Startup(ctx); err != nil {
				return err
			}
			defer a.Shutdown(ctx)

			if err := a.Sessions().Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	})
	topLevel.AddCommand(cmd)
}
