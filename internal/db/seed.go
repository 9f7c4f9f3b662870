package db

import (
	"context"
	"fmt"

	"github.com/vvka-141/dexplore/internal/catalogs/memory"
)

// Import copies the catalogs and records of src into the store, parents
// before children. Existing catalogs with the same id are updated. It returns
// the number of records written.
func (s *Store) Import(ctx context.Context, src *memory.Catalog) (int, error) {
	for _, node := range src.Catalogs() {
		if _, err := s.InsertCatalog(ctx, node); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, r := range src.Records() {
		if _, err := s.InsertMetadata(ctx, r.Metadata, r.CatalogIDs...); err != nil {
			return n, fmt.Errorf("import record %d: %w", n+1, err)
		}
		n++
	}
	if s.logger != nil {
		s.logger.Verbose("imported %d metadata records", n)
	}
	return n, nil
}
