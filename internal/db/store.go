package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/dexplore/pkg/dexplore"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is the subset of *pgxpool.Pool the store uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store serves metadata pages from the catalog tables.
type Store struct {
	db     DBTX
	logger dexplore.Logger
}

func NewStore(db DBTX, logger dexplore.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// EnsureSchema creates the catalog tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

// listQuery is a WHERE clause with its positional arguments.
type listQuery struct {
	with  string
	where []string
	args  []any
}

func (q *listQuery) arg(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *listQuery) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.where, " AND ")
}

// buildListQuery translates params into SQL. Keyword matching uses strpos so
// the keyword is matched literally and case-sensitively.
func buildListQuery(params dexplore.ListParams) (*listQuery, error) {
	q := &listQuery{}

	if params.Search != nil && params.Search.Keyword != "" {
		kw := q.arg(params.Search.Keyword)
		name := "strpos(m.name, " + kw + ") > 0"
		desc := "strpos(m.description, " + kw + ") > 0"
		creator := "strpos(m.creator, " + kw + ") > 0"
		switch params.Search.Range {
		case dexplore.SearchRangeDataName:
			q.where = append(q.where, name)
		case dexplore.SearchRangeDescription:
			q.where = append(q.where, desc)
		case dexplore.SearchRangeCreator:
			q.where = append(q.where, creator)
		default:
			q.where = append(q.where, "("+name+" OR "+desc+" OR "+creator+")")
		}
	}

	switch {
	case params.CatalogID != "":
		id, err := uuid.Parse(params.CatalogID)
		if err != nil {
			return nil, fmt.Errorf("catalog id %q is not a UUID: %w", params.CatalogID, dexplore.ErrInvalidConfig)
		}
		q.with = `WITH RECURSIVE scope AS (
    SELECT id FROM catalog WHERE id = ` + q.arg(id) + `
    UNION
    SELECT c.id FROM catalog c JOIN scope s ON c.parent_id = s.id
)
`
		q.where = append(q.where, `EXISTS (
        SELECT 1 FROM metadata_catalog mc
        WHERE mc.metadata_id = m.id AND mc.catalog_id IN (SELECT id FROM scope))`)
	case params.TagName != "":
		q.where = append(q.where, `EXISTS (
        SELECT 1 FROM metadata_tag mt JOIN tag t ON t.id = mt.tag_id
        WHERE mt.metadata_id = m.id AND t.name = `+q.arg(params.TagName)+`)`)
	}
	return q, nil
}

// GetMetadataList implements dexplore.MetadataService.
func (s *Store) GetMetadataList(ctx context.Context, params dexplore.ListParams) (*dexplore.MetadataListResult, error) {
	if params.Size <= 0 || params.Page < 0 {
		return nil, fmt.Errorf("invalid page %d size %d: %w", params.Page, params.Size, dexplore.ErrInvalidConfig)
	}
	q, err := buildListQuery(params)
	if err != nil {
		return nil, err
	}

	limit := q.arg(params.Size)
	offset := q.arg(params.Page * params.Size)
	sql := q.with + `SELECT m.id::text, m.name, m.description, m.creator, m.source_type,
    COALESCE((
        SELECT json_agg(json_build_object('id', t.id::text, 'name', t.name) ORDER BY t.name)
        FROM metadata_tag mt JOIN tag t ON t.id = mt.tag_id
        WHERE mt.metadata_id = m.id), '[]'::json),
    count(*) OVER ()
FROM metadata m
` + q.whereSQL() + `
ORDER BY m.created_time DESC, m.id
LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := s.db.Query(ctx, sql, q.args...)
	if err != nil {
		return nil, fmt.Errorf("query metadata list: %w", err)
	}
	defer rows.Close()

	var (
		records []dexplore.Metadata
		total   int64
	)
	for rows.Next() {
		var m dexplore.Metadata
		var sourceType string
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Creator, &sourceType, &m.Tags, &total); err != nil {
			return nil, fmt.Errorf("scan metadata row: %w", err)
		}
		m.SourceType = dexplore.SourceType(sourceType)
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read metadata list: %w", err)
	}

	// The window count is unavailable when the page is past the end.
	if len(records) == 0 && params.Page > 0 {
		if total, err = s.count(ctx, params); err != nil {
			return nil, err
		}
	}

	result := &dexplore.MetadataListResult{
		Page: dexplore.PageInfo{
			Size:          params.Size,
			TotalElements: total,
			TotalPages:    int((total + int64(params.Size) - 1) / int64(params.Size)),
			Number:        params.Page,
		},
	}
	if len(records) > 0 {
		result.Embedded = &dexplore.EmbeddedMetadata{Metadatas: records}
	}
	if s.logger != nil {
		s.logger.Verbose("catalog query returned %d of %d rows", len(records), total)
	}
	return result, nil
}

func (s *Store) count(ctx context.Context, params dexplore.ListParams) (int64, error) {
	q, err := buildListQuery(params)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := s.db.QueryRow(ctx, q.with+"SELECT count(*) FROM metadata m "+q.whereSQL(), q.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count metadata: %w", err)
	}
	return total, nil
}

// InsertCatalog stores node and returns its id. An empty id gets a new UUID.
func (s *Store) InsertCatalog(ctx context.Context, node dexplore.CatalogNode) (string, error) {
	id, err := idOrNew(node.ID)
	if err != nil {
		return "", err
	}
	var parent *uuid.UUID
	if node.ParentID != "" {
		p, err := uuid.Parse(node.ParentID)
		if err != nil {
			return "", fmt.Errorf("parent id %q is not a UUID: %w", node.ParentID, dexplore.ErrInvalidConfig)
		}
		parent = &p
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO catalog (id, name, parent_id) VALUES ($1, $2, $3)
         ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, parent_id = EXCLUDED.parent_id`,
		id, node.Name, parent)
	if err != nil {
		return "", fmt.Errorf("insert catalog %q: %w", node.Name, err)
	}
	return id.String(), nil
}

// InsertMetadata stores m with its tags and catalog memberships in one
// transaction and returns its id. Tags are matched by name. A record with an
// existing id is updated and keeps its creation time.
func (s *Store) InsertMetadata(ctx context.Context, m dexplore.Metadata, catalogIDs ...string) (string, error) {
	id, err := idOrNew(m.ID)
	if err != nil {
		return "", err
	}
	if !m.SourceType.IsValid() {
		return "", fmt.Errorf("metadata %q: unknown source type %q: %w", m.Name, m.SourceType, dexplore.ErrInvalidConfig)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO metadata (id, name, description, creator, source_type) VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description,
             creator = EXCLUDED.creator, source_type = EXCLUDED.source_type`,
		id, m.Name, m.Description, m.Creator, string(m.SourceType)); err != nil {
		return "", fmt.Errorf("insert metadata %q: %w", m.Name, err)
	}

	for _, t := range m.Tags {
		var tagID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO tag (id, name) VALUES ($1, $2)
             ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
             RETURNING id`,
			uuid.New(), t.Name).Scan(&tagID)
		if err != nil {
			return "", fmt.Errorf("upsert tag %q: %w", t.Name, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO metadata_tag (metadata_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, tagID); err != nil {
			return "", fmt.Errorf("tag metadata %q: %w", m.Name, err)
		}
	}

	for _, cid := range catalogIDs {
		catalogID, err := uuid.Parse(cid)
		if err != nil {
			return "", fmt.Errorf("catalog id %q is not a UUID: %w", cid, dexplore.ErrInvalidConfig)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO metadata_catalog (metadata_id, catalog_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			id, catalogID); err != nil {
			return "", fmt.Errorf("place metadata %q in catalog: %w", m.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit metadata %q: %w", m.Name, err)
	}
	return id.String(), nil
}

func idOrNew(id string) (uuid.UUID, error) {
	if id == "" {
		return uuid.New(), nil
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id %q is not a UUID: %w", id, dexplore.ErrInvalidConfig)
	}
	return u, nil
}

// IsUndefinedTable reports whether err means the catalog schema is missing.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}

var _ dexplore.MetadataService = (*Store)(nil)
