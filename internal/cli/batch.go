package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvnsw/photosieve/internal/catalog"
	"github.com/kvnsw/photosieve/internal/engine"
)

var (
	batchSize   int
	batchMode   string
	batchAnchor string
)

var batchCmd = &cobra.Command{
	Use:   "batch [library-dir]",
	Short: "Scan a library and print one review batch as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchSize, "size", 0, "batch size (0 = configured default)")
	batchCmd.Flags().StringVar(&batchMode, "mode", "", "random_walk or similar")
	batchCmd.Flags().StringVar(&batchAnchor, "anchor", "", "photo id to cluster around (similar mode)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, db, _, eng, err := openAll()
	if err != nil {
		return err
	}
	defer db.Close()

	root := cfg.Library.Root
	if len(args) > 0 {
		root = args[0]
	}
	if root == "" {
		return fmt.Errorf("no library directory given (argument, library.root, or PHOTOSIEVE_LIBRARY)")
	}

	photos, err := catalog.Scan(root)
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}

	modeStr := batchMode
	if modeStr == "" {
		modeStr = cfg.Batch.DefaultMode
	}
	mode, err := engine.ParseMode(modeStr)
	if err != nil {
		return err
	}

	var anchor *catalog.Photo
	if batchAnchor != "" {
		for i := range photos {
			if photos[i].ID == batchAnchor {
				anchor = &photos[i]
				break
			}
		}
		if anchor == nil {
			return fmt.Errorf("anchor %q not found in library", batchAnchor)
		}
	}

	batch := eng.GetBatch(photos, cfg.ClampBatchSize(batchSize), mode, anchor)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(batch)
}
