package catalog

import (
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Scan walks the library root and builds a Photo record for every image
// file found. The path relative to root serves as the stable ID, and the
// name of the containing directory becomes the album (empty for photos
// directly under root).
//
// Dimensions are read header-only via image.DecodeConfig; a file whose
// header cannot be decoded still gets a record (with zero dimensions) so
// it remains triageable.
func Scan(root string) ([]Photo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %s is not a directory", root)
	}

	var photos []Photo
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("scan: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			log.Printf("scan: stat %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", path, err)
		}

		album := ""
		if dir := filepath.Dir(rel); dir != "." {
			album = filepath.Base(dir)
		}

		width, height := readDimensions(path)

		photos = append(photos, Photo{
			ID:           filepath.ToSlash(rel),
			Location:     path,
			DateModified: fi.ModTime().UnixMilli(),
			Size:         fi.Size(),
			Width:        width,
			Height:       height,
			AlbumName:    album,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk library: %w", err)
	}

	return photos, nil
}

// readDimensions decodes only the image header. Returns zeros when the
// format is unsupported or the file is unreadable.
func readDimensions(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
