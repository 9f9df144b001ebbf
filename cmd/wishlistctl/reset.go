package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utafrali/wishlist/internal/repository/postgres"
)

var (
	// Reset flags
	confirmReset bool

	// Count flags
	countWishlistID int64
)

// resetCmd removes all data
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every wishlist and item",
	Long: `Delete every wishlist and item and restart the id sequences.

Examples:
  wishlistctl reset --yes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmReset {
			return errors.New("refusing to reset without --yes")
		}

		pool, _, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := postgres.NewWishlistRepository(pool).ResetAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all wishlists removed")
		return nil
	},
}

// countCmd reports stored items
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count wishlist items",
	Long: `Count the items stored across all wishlists, or in one wishlist.

Examples:
  wishlistctl count
  wishlistctl count --wishlist 12`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, _, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		items := postgres.NewItemRepository(pool)
		var n int64
		if cmd.Flags().Changed("wishlist") {
			n, err = items.CountByWishlist(cmd.Context(), countWishlistID)
		} else {
			n, err = items.CountAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&confirmReset, "yes", false, "Confirm that all data should be deleted")
	countCmd.Flags().Int64Var(&countWishlistID, "wishlist", 0, "Only count items of this wishlist")

	rootCmd.AddCommand(resetCmd, countCmd)
}
