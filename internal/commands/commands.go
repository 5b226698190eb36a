package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"summaryedit/internal/app"
	"summaryedit/internal/config"
)

// New builds the summaryedit root command.
func New() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "summaryedit",
		Short: "Edit AI-generated meeting summaries as structured block documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.String("data-dir", "", "directory for the database and inbox")
	flags.String("db", "", "path of the SQLite database")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = v.BindPFlag("db_path", flags.Lookup("db"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	AddCommands(cmd, v)
	return cmd
}

func AddCommands(topLevel *cobra.Command, v *viper.Viper) {
	addMCP(topLevel, v)
	addWatch(topLevel, v)
	addExport(topLevel)
	addCopy(topLevel)
	addSessions(topLevel, v)
}

// loadApp resolves configuration through v, which carries the bound flags.
func loadApp(v *viper.Viper) (*app.App, error) {
	cfg, err := config.LoadWith(v)
	if err != nil {
		return nil, err
	}
	return app.New(cfg), nil
}
