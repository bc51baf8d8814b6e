package csvio

import (
	"context"
	"fmt"
	"path/filepath"
)

// DirSource resolves feed names to CSV files under a single data
// directory. It satisfies the pipeline's Source interface.
type DirSource struct {
	Dir   string
	Files map[string]string // feed name -> file name
}

// NewDirSource creates a DirSource for the three fixed feeds.
func NewDirSource(dir, customersFile, productsFile, salesFile string) *DirSource {
	return &DirSource{
		Dir: dir,
		Files: map[string]string{
			"customers": customersFile,
			"products":  productsFile,
			"sales":     salesFile,
		},
	}
}

// ReadFeed reads all rows (header included) for the named feed.
func (s *DirSource) ReadFeed(ctx context.Context, feed string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, ok := s.Files[feed]
	if !ok {
		return nil, fmt.Errorf("unknown feed %q", feed)
	}
	return ReadFile(filepath.Join(s.Dir, name))
}
