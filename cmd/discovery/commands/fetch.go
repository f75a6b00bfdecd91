package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/query"
)

func fetchCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "fetch [category]",
		Short: "Fetch a category page once and print it as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cats []anilist.Category
			switch {
			case all || len(args) == 0:
				cats = anilist.Categories()
			default:
				c, err := anilist.ParseCategory(args[0])
				if err != nil {
					return err
				}
				cats = []anilist.Category{c}
			}

			client := anilist.NewClient(cfg.AniList.Endpoint, cfg.AniList.Timeout, cfg.AniList.RequestsPerMinute)
			cache, err := query.New(client, query.Config{FetchTimeout: cfg.AniList.Timeout})
			if err != nil {
				return err
			}

			now := time.Now()
			reqs := make([]anilist.Request, len(cats))
			for i, c := range cats {
				reqs[i] = anilist.RequestFor(c, now)
			}

			var pages []anilist.PagedData
			for _, res := range cache.FetchAll(cmd.Context(), reqs) {
				if res.Err != nil {
					return fmt.Errorf("fetch %s: %w", res.Category, res.Err)
				}
				pages = append(pages, *res.Data)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if len(pages) == 1 {
				return enc.Encode(pages[0])
			}
			return enc.Encode(pages)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "fetch every category")
	return cmd
}
