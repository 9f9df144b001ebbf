package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/wishlist/pkg/database"
)

func TestFS_OrderedMigrations(t *testing.T) {
	names, err := database.MigrationFiles(FS)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"001_create_wishlists.up.sql",
		"002_create_wishlist_items.up.sql",
	}, names)
}
