package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/anilist"
	"github.com/abelbrown/discovery/internal/output"
)

func pagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages [category]",
		Short: "Show stored page stats, or the stored page of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				c, err := anilist.ParseCategory(args[0])
				if err != nil {
					return err
				}
				page, err := st.LastPage(c)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(page)
			}

			stats, err := st.PageStats()
			if err != nil {
				return err
			}
			if len(stats) == 0 {
				fmt.Println("No pages stored yet.")
				return nil
			}

			table := output.NewTable([]string{"CATEGORY", "ITEMS", "REVISION", "FETCHED"})
			for _, s := range stats {
				table.AddRow(string(s.Category), strconv.Itoa(s.Items), strconv.Itoa(s.Revision), s.FetchedAt.Local().Format(time.DateTime))
			}
			return table.Render()
		},
	}
}
