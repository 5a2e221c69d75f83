package sections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sekolahku_backend/internals/features/content/repository"
	"sekolahku_backend/internals/helpers/events"
	"sekolahku_backend/internals/testkit"
)

func TestSeedSectionsOnce(t *testing.T) {
	cat := repository.NewCatalog(testkit.OpenDB(t), events.Nop{})
	ctx := context.Background()

	n, err := SeedSectionsFromDir(ctx, cat, ".")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	h, err := cat.History.Get(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, h.Milestones, 3)

	// sudah ada -> dilewati, isi tidak ditimpa
	_, err = cat.Hero.Update(ctx, "main", repository.Document{"title": "Diubah admin"}, nil)
	require.NoError(t, err)
	n, err = SeedSectionsFromDir(ctx, cat, ".")
	require.NoError(t, err)
	assert.Zero(t, n)

	hero, err := cat.Hero.Get(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "Diubah admin", hero.Title)
}

func TestSeedMissingDir(t *testing.T) {
	cat := repository.NewCatalog(testkit.OpenDB(t), events.Nop{})

	n, err := SeedSectionsFromDir(context.Background(), cat, "tidak-ada")
	require.NoError(t, err)
	assert.Zero(t, n)
}
