package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/config"
	"github.com/abelbrown/discovery/internal/output"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Println("Wrote", path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := output.NewTable([]string{"KEY", "VALUE"})
			table.AddRow("anilist.endpoint", cfg.AniList.Endpoint)
			table.AddRow("anilist.timeout", cfg.AniList.Timeout.String())
			table.AddRow("anilist.requests_per_minute", strconv.Itoa(cfg.AniList.RequestsPerMinute))
			table.AddRow("refresh.popular_ms", strconv.FormatInt(cfg.Refresh.PopularMs, 10))
			table.AddRow("refresh.trending_ms", strconv.FormatInt(cfg.Refresh.TrendingMs, 10))
			table.AddRow("refresh.seasonal_ms", strconv.FormatInt(cfg.Refresh.SeasonalMs, 10))
			table.AddRow("database.path", cfg.Database.Path)
			table.AddRow("log.path", cfg.Log.Path)
			table.AddRow("ui.theme", cfg.UI.Theme)
			table.AddRow("ui.queue_height", strconv.FormatFloat(cfg.UI.QueueHeight, 'g', -1, 64))
			return table.Render()
		},
	})
	return cmd
}
