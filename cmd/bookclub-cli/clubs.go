package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/bookclub/client"
)

func newClubsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Join, leave and list your clubs",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mine",
			Short: "List the clubs you belong to",
			RunE: func(cmd *cobra.Command, args []string) error {
				clubs, err := a.api.MyClubs(cmd.Context())
				if err != nil {
					return err
				}
				if len(clubs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "You have not joined any clubs")
					return nil
				}
				for _, club := range clubs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d members)\n", club.ID, len(club.UserIDs))
				}
				return nil
			},
		},
		membershipCommand("join", "Joined", func(ctx context.Context, clubID string) (*client.ClubMembers, error) {
			return a.api.JoinClub(ctx, clubID)
		}),
		membershipCommand("leave", "Left", func(ctx context.Context, clubID string) (*client.ClubMembers, error) {
			return a.api.LeaveClub(ctx, clubID)
		}),
	)
	return cmd
}

func membershipCommand(use, done string, change func(ctx context.Context, clubID string) (*client.ClubMembers, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <club-id>",
		Short: use + " a club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := change(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d members)\n", done, club.ID, len(club.UserIDs))
			return nil
		},
	}
}
