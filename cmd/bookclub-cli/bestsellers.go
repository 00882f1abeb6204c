package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/bookclub/client"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

func newBestsellersCommand(a *app) *cobra.Command {
	var (
		pace       time.Duration
		concurrent bool
	)
	cmd := &cobra.Command{
		Use:   "bestsellers [list...]",
		Short: "Show current bestseller lists",
		Long:  "Show current bestseller lists. Without arguments every default category is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = model.BestsellerCategories
			}

			var results []client.ListResult
			if concurrent {
				results = a.fetcher.FetchLists(cmd.Context(), names)
			} else {
				results = a.fetcher.FetchListsPaced(cmd.Context(), names, pace)
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, result := range results {
				fmt.Fprintf(out, "== %s\n", result.Name)
				if result.Err != nil {
					failed++
					fmt.Fprintf(out, "   unavailable: %v\n", result.Err)
					continue
				}
				var books []model.Bestseller
				if err := json.Unmarshal(result.Data, &books); err != nil {
					failed++
					fmt.Fprintf(out, "   unreadable: %v\n", err)
					continue
				}
				for _, book := range books {
					fmt.Fprintf(out, "%3d. %s by %s (%s)\n", book.Rank, book.Title, book.Author, book.PrimaryISBN13)
				}
			}
			if failed == len(results) && failed > 0 {
				return fmt.Errorf("no list could be loaded")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&pace, "pace", time.Second, "delay between sequential list requests")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "fetch all lists at once instead of pacing requests")
	return cmd
}

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage locally cached lists",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear [list]",
		Short: "Remove one cached list, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.fetcher.ClearCache(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", args[0])
				return nil
			}
			if err := a.fetcher.ClearAllCaches(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached lists")
			return nil
		},
	})
	return cmd
}
