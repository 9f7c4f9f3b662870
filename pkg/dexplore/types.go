package dexplore

import (
	"net/url"
	"strconv"
)

// SourceType classifies where a dataset's data lives.
type SourceType string

const (
	// SourceTypeEngine is a dataset stored natively in the query engine.
	SourceTypeEngine SourceType = "ENGINE"
	// SourceTypeJDBC is a dataset backed by an external JDBC-connected database.
	SourceTypeJDBC SourceType = "JDBC"
	// SourceTypeStageDB is a dataset held in the staging store.
	SourceTypeStageDB SourceType = "STAGEDB"
)

// SourceTypes returns every known source type in display order.
func SourceTypes() []SourceType {
	return []SourceType{SourceTypeEngine, SourceTypeJDBC, SourceTypeStageDB}
}

// IsValid reports whether t is one of the known source types.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeEngine, SourceTypeJDBC, SourceTypeStageDB:
		return true
	}
	return false
}

// Tag is a label attached to a metadata record.
type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Metadata is a dataset descriptor shown as one row of the explore list.
// It is read-only from the list's perspective.
type Metadata struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Creator     string     `json:"creator"`
	SourceType  SourceType `json:"sourceType"`
	Tags        []Tag      `json:"tags,omitempty"`
}

// HasTags reports whether the record carries at least one tag.
func (m Metadata) HasTags() bool {
	return len(m.Tags) > 0
}

// PageInfo is the page summary returned alongside a metadata page.
type PageInfo struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// EmbeddedMetadata holds the records of a page.
type EmbeddedMetadata struct {
	Metadatas []Metadata `json:"metadatas"`
}

// MetadataListResult is the success value of a metadata list fetch.
// Embedded is nil when the service returned no records.
type MetadataListResult struct {
	Page     PageInfo          `json:"page"`
	Embedded *EmbeddedMetadata `json:"_embedded,omitempty"`
}

// Records returns the embedded records, or an empty non-nil slice when none
// were returned.
func (r *MetadataListResult) Records() []Metadata {
	if r == nil || r.Embedded == nil || r.Embedded.Metadatas == nil {
		return []Metadata{}
	}
	return r.Embedded.Metadatas
}

// LnbTab identifies the active left-navigation tab.
type LnbTab string

const (
	// LnbTabNone means no navigation tab narrows the list.
	LnbTabNone LnbTab = ""
	// LnbTabCatalog narrows the list by the selected catalog node.
	LnbTabCatalog LnbTab = "CATALOG"
	// LnbTabTag narrows the list by the selected tag.
	LnbTabTag LnbTab = "TAG"
)

// SearchRange selects which field(s) a keyword search targets.
type SearchRange string

const (
	SearchRangeAll         SearchRange = "ALL"
	SearchRangeDataName    SearchRange = "DATA_NAME"
	SearchRangeDescription SearchRange = "DESCRIPTION"
	SearchRangeCreator     SearchRange = "CREATOR"
)

// SearchRanges returns the ranges in the order the UI cycles through them.
func SearchRanges() []SearchRange {
	return []SearchRange{SearchRangeAll, SearchRangeDataName, SearchRangeDescription, SearchRangeCreator}
}

// ParamKey returns the query parameter name the metadata service expects for
// a keyword searched in this range.
func (r SearchRange) ParamKey() string {
	switch r {
	case SearchRangeDataName:
		return "nameContains"
	case SearchRangeDescription:
		return "descContains"
	case SearchRangeCreator:
		return "creatorContains"
	default:
		return "keyword"
	}
}

// IsValid reports whether r is a known search range.
func (r SearchRange) IsValid() bool {
	switch r {
	case SearchRangeAll, SearchRangeDataName, SearchRangeDescription, SearchRangeCreator:
		return true
	}
	return false
}

// Covers reports whether a keyword searched in r should be highlighted in a
// field searched by field.
func (r SearchRange) Covers(field SearchRange) bool {
	return r == SearchRangeAll || r == field
}

// CatalogNode is a node of the hierarchical catalog tree.
type CatalogNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId,omitempty"`
}

// TagNode is a tag selectable in the tag navigation tab.
type TagNode struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Selection is a point-in-time snapshot of the shared explore view-model.
type Selection struct {
	Tab         LnbTab
	SearchRange SearchRange
	Keyword     string
	Catalog     *CatalogNode
	Tag         *TagNode
}

// SearchParam is the keyword part of a list query.
type SearchParam struct {
	Range   SearchRange
	Keyword string
}

// ListParams is the query sent to a MetadataService.
// At most one of CatalogID and TagName is set.
type ListParams struct {
	Page      int
	Size      int
	Search    *SearchParam
	CatalogID string
	TagName   string
}

// Values renders the params as URL query values using the service's
// parameter names.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("size", strconv.Itoa(p.Size))
	if p.Search != nil && p.Search.Keyword != "" {
		v.Set(p.Search.Range.ParamKey(), p.Search.Keyword)
	}
	if p.CatalogID != "" {
		v.Set("catalogId", p.CatalogID)
	} else if p.TagName != "" {
		v.Set("tag", p.TagName)
	}
	return v
}

// PageCursor is the list's current page index and size.
type PageCursor struct {
	Page int
	Size int
}
