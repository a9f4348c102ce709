package server

import (
	"testing"

	"github.com/kvnsw/photosieve/internal/catalog"
	"github.com/kvnsw/photosieve/internal/config"
	"github.com/kvnsw/photosieve/internal/engine"
	"github.com/kvnsw/photosieve/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cooldowns := store.NewCooldownStore(db)
	eng := engine.New(cooldowns)

	cfg := config.Default()
	cfg.Batch.MinSize = 1 // small catalogs in tests

	srv := New(db, cooldowns, eng, cfg, "test")
	srv.SetCatalog(testCatalog())
	return srv
}

func testCatalog() []catalog.Photo {
	photos := make([]catalog.Photo, 12)
	for i := range photos {
		photos[i] = catalog.Photo{
			ID:           string(rune('a' + i)),
			Location:     "/library/" + string(rune('a'+i)) + ".jpg",
			DateModified: 1_700_000_000_000 + int64(i)*60_000,
			Size:         int64(1_000_000 + i*100_000),
			Width:        4000,
			Height:       3000,
			AlbumName:    "trip",
		}
	}
	return photos
}
