package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/utafrali/wishlist/internal/domain"
	"github.com/utafrali/wishlist/internal/repository"
	"github.com/utafrali/wishlist/internal/repository/postgres"
)

var (
	// Seed flags
	seedWishlists int
	seedItems     int
	seedCustomers int64
)

var seedWishlistNames = []string{"birthday", "holidays", "home office", "camping", "books to read", "kitchen"}

var seedProducts = []string{
	"Wireless Headphones", "Espresso Machine", "Trail Running Shoes", "Mechanical Keyboard",
	"Cast Iron Skillet", "Camping Tent", "E-Reader", "Yoga Mat", "Desk Lamp", "Board Game",
	"Backpack", "Water Bottle",
}

// seedCmd fills the database with sample data
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample wishlists",
	Long: `Create sample wishlists spread over a set of customers, each holding a few
distinct products. Intended for local development.

Examples:
  wishlistctl seed
  wishlistctl seed --wishlists 50 --items 8 --customers 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedWishlists < 1 || seedCustomers < 1 {
			return fmt.Errorf("--wishlists and --customers must be positive")
		}
		if seedItems < 0 || seedItems > len(seedProducts) {
			return fmt.Errorf("--items must be between 0 and %d", len(seedProducts))
		}

		pool, _, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		created, err := seed(cmd.Context(),
			postgres.NewWishlistRepository(pool),
			postgres.NewItemRepository(pool),
			rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // sample data
		)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %d wishlists with %d items\n", created.wishlists, created.items)
		return nil
	},
}

type seedResult struct {
	wishlists int
	items     int
}

func seed(ctx context.Context, wishlists repository.WishlistRepository, items repository.ItemRepository, rng *rand.Rand) (seedResult, error) {
	var res seedResult
	for i := 0; i < seedWishlists; i++ {
		w := &domain.Wishlist{
			Name:       seedWishlistNames[i%len(seedWishlistNames)],
			CustomerID: 1 + rng.Int63n(seedCustomers),
		}
		if err := wishlists.Create(ctx, w); err != nil {
			return res, fmt.Errorf("seed wishlist %d: %w", i+1, err)
		}
		res.wishlists++

		// Distinct products per wishlist keep the (wishlist, product) key unique.
		for n, idx := range rng.Perm(len(seedProducts))[:seedItems] {
			item := &domain.Item{
				WishlistID:  w.ID,
				ProductID:   int64(idx + 1),
				ProductName: seedProducts[idx],
			}
			if err := items.Add(ctx, item); err != nil {
				return res, fmt.Errorf("seed item %d of wishlist %d: %w", n+1, w.ID, err)
			}
			res.items++
		}
	}
	return res, nil
}

func init() {
	seedCmd.Flags().IntVar(&seedWishlists, "wishlists", 10, "Number of wishlists to create")
	seedCmd.Flags().IntVar(&seedItems, "items", 5, "Products added to each wishlist")
	seedCmd.Flags().Int64Var(&seedCustomers, "customers", 3, "Customers the wishlists are spread over")

	rootCmd.AddCommand(seedCmd)
}
