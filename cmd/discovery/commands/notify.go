package commands

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abelbrown/discovery/internal/output"
	"github.com/abelbrown/discovery/internal/store"
)

func notifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage new-episode notifications",
	}
	cmd.AddCommand(notifyAddCmd(), notifyListCmd(), notifyClearCmd())
	return cmd
}

func notifyAddCmd() *cobra.Command {
	var (
		episode int
		airing  string
	)
	cmd := &cobra.Command{
		Use:   "add <media-id> <title>",
		Short: "Add a notification for a followed title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid media id %q: %w", args[0], err)
			}
			n := store.Notification{
				ID:      uuid.NewString(),
				MediaID: mediaID,
				Title:   args[1],
				Episode: episode,
			}
			if airing != "" {
				t, err := time.Parse(time.RFC3339, airing)
				if err != nil {
					return fmt.Errorf("invalid --airing: %w", err)
				}
				n.AiringAt = t
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.AddNotification(n); err != nil {
				return err
			}
			fmt.Println(n.ID)
			return nil
		},
	}
	cmd.Flags().IntVarP(&episode, "episode", "e", 0, "episode number")
	cmd.Flags().StringVar(&airing, "airing", "", "airing time (RFC 3339)")
	return cmd
}

func notifyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			byID, err := st.Notifications()
			if err != nil {
				return err
			}
			if len(byID) == 0 {
				fmt.Println("No notifications.")
				return nil
			}

			list := make([]store.Notification, 0, len(byID))
			for _, n := range byID {
				list = append(list, n)
			}
			slices.SortFunc(list, func(a, b store.Notification) int {
				return b.CreatedAt.Compare(a.CreatedAt)
			})

			table := output.NewTable([]string{"ID", "MEDIA", "TITLE", "EPISODE", "AIRING"})
			for _, n := range list {
				airing := "-"
				if !n.AiringAt.IsZero() {
					airing = n.AiringAt.Local().Format(time.DateTime)
				}
				table.AddRow(n.ID, strconv.Itoa(n.MediaID), n.Title, strconv.Itoa(n.Episode), airing)
			}
			return table.Render()
		},
	}
}

func notifyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.ClearNotifications()
			if err != nil {
				return err
			}
			fmt.Printf("Cleared %d notifications.\n", n)
			return nil
		},
	}
}
