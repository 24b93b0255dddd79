package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/moarster/yms-react-sub001/internal/catalogstore"
	"github.com/moarster/yms-react-sub001/internal/ids"
)

// CatalogStore serves reference data from the catalog_items table.
type CatalogStore struct {
	db *sql.DB
}

var _ catalogstore.Store = (*CatalogStore)(nil)

// NewCatalogStore wraps an existing handle, typically Store.DB().
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) List(ctx context.Context, domain, catalogName, search string, size int) ([]catalogstore.Record, error) {
	if domain == "" || catalogName == "" {
		return nil, fmt.Errorf("%w: domain and catalog are required", catalogstore.ErrInvalidInput)
	}
	query := `
		select id, domain, catalog, title, data from catalog_items
		where domain = $1 and catalog = $2`
	args := []any{domain, catalogName}
	if search = strings.TrimSpace(search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		query += fmt.Sprintf(" and lower(title) like $%d", len(args))
	}
	query += " order by title"
	if size > 0 {
		args = append(args, size)
		query += fmt.Sprintf(" limit $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []catalogstore.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *CatalogStore) Get(ctx context.Context, domain, catalogName, id string) (catalogstore.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, domain, catalog, title, data from catalog_items
		where domain = $1 and catalog = $2 and id = $3
	`, domain, catalogName, id)
	return scanRecord(row)
}

func (s *CatalogStore) Create(ctx context.Context, rec catalogstore.Record) (catalogstore.Record, error) {
	if err := validateRecord(rec); err != nil {
		return catalogstore.Record{}, err
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	data, err := encodeData(rec.Data)
	if err != nil {
		return catalogstore.Record{}, err
	}
	_, err = s.db.ExecContext(ctx, `
		insert into catalog_items(id, domain, catalog, title, data)
		values ($1, $2, $3, $4, $5)
	`, rec.ID, rec.Domain, rec.Catalog, rec.Title, data)
	if err != nil {
		return catalogstore.Record{}, err
	}
	return rec, nil
}

func (s *CatalogStore) Update(ctx context.Context, rec catalogstore.Record) (catalogstore.Record, error) {
	if err := validateRecord(rec); err != nil {
		return catalogstore.Record{}, err
	}
	if rec.ID == "" {
		return catalogstore.Record{}, fmt.Errorf("%w: id is required", catalogstore.ErrInvalidInput)
	}
	data, err := encodeData(rec.Data)
	if err != nil {
		return catalogstore.Record{}, err
	}
	res, err := s.db.ExecContext(ctx, `
		update catalog_items set title = $1, data = $2
		where domain = $3 and catalog = $4 and id = $5
	`, rec.Title, data, rec.Domain, rec.Catalog, rec.ID)
	if err != nil {
		return catalogstore.Record{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalogstore.Record{}, catalogstore.ErrNotFound
	}
	return rec, nil
}

func (s *CatalogStore) Delete(ctx context.Context, domain, catalogName, id string) error {
	res, err := s.db.ExecContext(ctx, `
		delete from catalog_items where domain = $1 and catalog = $2 and id = $3
	`, domain, catalogName, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalogstore.ErrNotFound
	}
	return nil
}

func validateRecord(rec catalogstore.Record) error {
	if rec.Domain == "" || rec.Catalog == "" {
		return fmt.Errorf("%w: domain and catalog are required", catalogstore.ErrInvalidInput)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return fmt.Errorf("%w: title is required", catalogstore.ErrInvalidInput)
	}
	return nil
}

func encodeData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode data: %w", err)
	}
	return encoded, nil
}

func scanRecord(row rowScanner) (catalogstore.Record, error) {
	var (
		rec  catalogstore.Record
		data []byte
	)
	err := row.Scan(&rec.ID, &rec.Domain, &rec.Catalog, &rec.Title, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return catalogstore.Record{}, catalogstore.ErrNotFound
	}
	if err != nil {
		return catalogstore.Record{}, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return catalogstore.Record{}, fmt.Errorf("decode data: %w", err)
		}
	}
	return rec, nil
}
