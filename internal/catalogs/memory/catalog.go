// Package memory provides an in-memory dexplore.MetadataService.
//
// It applies the same filter semantics as the catalog database store:
// literal case-sensitive keyword matching per search range, catalog filters
// that include descendant catalogs, and exact tag-name filters.
// It backs the --demo mode and tests.
package memory

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

//go:embed sample.yaml
var sampleData []byte

// Record is a metadata record together with the catalogs it belongs to.
type Record struct {
	dexplore.Metadata
	CatalogIDs []string
}

// Catalog is an in-memory metadata catalog.
type Catalog struct {
	mu       sync.RWMutex
	records  []Record
	catalogs []dexplore.CatalogNode
	calls    int
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// NewSampleCatalog creates a catalog preloaded with the bundled sample data.
func NewSampleCatalog() (*Catalog, error) {
	c := NewCatalog()
	if err := c.LoadYAML(sampleData); err != nil {
		return nil, fmt.Errorf("load sample catalog: %w", err)
	}
	return c, nil
}

type yamlCatalog struct {
	Catalogs []struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		ParentID string `yaml:"parentId"`
	} `yaml:"catalogs"`
	Metadatas []struct {
		ID          string   `yaml:"id"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Creator     string   `yaml:"creator"`
		SourceType  string   `yaml:"sourceType"`
		CatalogIDs  []string `yaml:"catalogIds"`
		Tags        []string `yaml:"tags"`
	} `yaml:"metadatas"`
}

// LoadYAML adds the catalogs and records described by data.
// Records without an id get a random one.
func (c *Catalog) LoadYAML(data []byte) error {
	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	for _, cat := range doc.Catalogs {
		c.AddCatalog(dexplore.CatalogNode{ID: cat.ID, Name: cat.Name, ParentID: cat.ParentID})
	}
	for _, m := range doc.Metadatas {
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		} else if _, err := uuid.Parse(id); err != nil {
			return fmt.Errorf("metadata %q: invalid id %q: %w", m.Name, id, err)
		}
		tags := make([]dexplore.Tag, 0, len(m.Tags))
		for _, name := range m.Tags {
			tags = append(tags, dexplore.Tag{ID: tagID(name), Name: name})
		}
		c.Add(Record{
			Metadata: dexplore.Metadata{
				ID:          id,
				Name:        m.Name,
				Description: m.Description,
				Creator:     m.Creator,
				SourceType:  dexplore.SourceType(m.SourceType),
				Tags:        tags,
			},
			CatalogIDs: m.CatalogIDs,
		})
	}
	return nil
}

// tagID derives a stable id from a tag name.
func tagID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("dexplore/tag/"+name)).String()
}

// Add appends a record.
func (c *Catalog) Add(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
}

// AddCatalog registers a catalog node, replacing one with the same id.
func (c *Catalog) AddCatalog(node dexplore.CatalogNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.catalogs {
		if n.ID == node.ID {
			c.catalogs[i] = node
			return
		}
	}
	c.catalogs = append(c.catalogs, node)
}

// Catalogs returns the catalog nodes in registration order.
func (c *Catalog) Catalogs() []dexplore.CatalogNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]dexplore.CatalogNode, len(c.catalogs))
	copy(out, c.catalogs)
	return out
}

// Records returns the records in insertion order.
func (c *Catalog) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Calls returns how many list requests were served.
func (c *Catalog) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// GetMetadataList implements dexplore.MetadataService.
func (c *Catalog) GetMetadataList(ctx context.Context, params dexplore.ListParams) (*dexplore.MetadataListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params.Size <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d: %w", params.Size, dexplore.ErrInvalidConfig)
	}
	if params.Page < 0 {
		return nil, fmt.Errorf("page must not be negative, got %d: %w", params.Page, dexplore.ErrInvalidConfig)
	}

	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()

	var catalogSet map[string]bool
	if params.CatalogID != "" {
		catalogSet = c.descendantsLocked(params.CatalogID)
	}

	var matched []dexplore.Metadata
	for _, r := range c.records {
		if !matchesSearch(r.Metadata, params.Search) {
			continue
		}
		if catalogSet != nil && !inAnyCatalog(r.CatalogIDs, catalogSet) {
			continue
		}
		if params.CatalogID == "" && params.TagName != "" && !hasTag(r.Metadata, params.TagName) {
			continue
		}
		matched = append(matched, r.Metadata)
	}

	total := len(matched)
	result := &dexplore.MetadataListResult{
		Page: dexplore.PageInfo{
			Size:          params.Size,
			TotalElements: int64(total),
			TotalPages:    (total + params.Size - 1) / params.Size,
			Number:        params.Page,
		},
	}

	start := params.Page * params.Size
	if start >= total {
		return result, nil
	}
	end := start + params.Size
	if end > total {
		end = total
	}
	page := make([]dexplore.Metadata, end-start)
	copy(page, matched[start:end])
	result.Embedded = &dexplore.EmbeddedMetadata{Metadatas: page}
	return result, nil
}

// descendantsLocked returns id and every catalog below it.
func (c *Catalog) descendantsLocked(id string) map[string]bool {
	set := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, n := range c.catalogs {
			if !set[n.ID] && set[n.ParentID] {
				set[n.ID] = true
				changed = true
			}
		}
	}
	return set
}

func matchesSearch(m dexplore.Metadata, search *dexplore.SearchParam) bool {
	if search == nil || search.Keyword == "" {
		return true
	}
	kw := search.Keyword
	switch search.Range {
	case dexplore.SearchRangeDataName:
		return strings.Contains(m.Name, kw)
	case dexplore.SearchRangeDescription:
		return strings.Contains(m.Description, kw)
	case dexplore.SearchRangeCreator:
		return strings.Contains(m.Creator, kw)
	default:
		return strings.Contains(m.Name, kw) ||
			strings.Contains(m.Description, kw) ||
			strings.Contains(m.Creator, kw)
	}
}

func inAnyCatalog(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if set[id] {
			return true
		}
	}
	return false
}

func hasTag(m dexplore.Metadata, name string) bool {
	for _, t := range m.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

var _ dexplore.MetadataService = (*Catalog)(nil)
