// Package pg persists shipment RFP documents and catalog items in Postgres
// through database/sql with the pgx stdlib driver.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/moarster/yms-react-sub001/internal/auth"
	"github.com/moarster/yms-react-sub001/internal/catalog"
	"github.com/moarster/yms-react-sub001/internal/ids"
	"github.com/moarster/yms-react-sub001/internal/rfp"
)

// Store holds the shared connection pool.
type Store struct {
	db   *sql.DB
	sink rfp.EventSink
	now  func() time.Time
}

var _ rfp.Service = (*Store)(nil)

// Open connects to Postgres with pool defaults tuned for the portal.
func Open(dsn string, sink rfp.EventSink) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db, sink: sink, now: time.Now}, nil
}

// NewWithDB wraps an existing handle. Test use.
func NewWithDB(db *sql.DB, sink rfp.EventSink) *Store {
	return &Store{db: db, sink: sink, now: time.Now}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Create(ctx context.Context, p auth.Principal, data rfp.Data, draft bool) (rfp.ShipmentRfp, error) {
	if len(data.Route) == 0 {
		return rfp.ShipmentRfp{}, fmt.Errorf("%w: at least one route point is required", rfp.ErrInvalidInput)
	}
	status := rfp.StatusNew
	if draft {
		status = rfp.StatusDraft
	}
	now := s.now().UTC()
	doc := rfp.ShipmentRfp{
		ID:        ids.New(),
		Status:    status,
		CreatedBy: p.UserID,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := doc.Validate(); err != nil {
		return rfp.ShipmentRfp{}, err
	}
	payload, err := json.Marshal(doc.Data)
	if err != nil {
		return rfp.ShipmentRfp{}, fmt.Errorf("encode payload: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		insert into shipment_rfps(id, status, created_by, assigned_carrier, data, created_at, updated_at)
		values ($1, $2, $3, null, $4, $5, $5)
	`, doc.ID, string(doc.Status), doc.CreatedBy, payload, now)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	s.publish(rfp.Event{DocumentID: doc.ID, Status: doc.Status, Actor: p.UserID, Timestamp: now})
	return doc, nil
}

func (s *Store) Get(ctx context.Context, id string) (rfp.ShipmentRfp, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, status, created_by, assigned_carrier, data, created_at, updated_at
		from shipment_rfps where id = $1
	`, id)
	return scanDocument(row)
}

func (s *Store) List(ctx context.Context, filter rfp.ListFilter) ([]rfp.ShipmentRfp, error) {
	query := `
		select id, status, created_by, assigned_carrier, data, created_at, updated_at
		from shipment_rfps where 1=1`
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" and status = $%d", len(args))
	}
	if filter.CreatedBy != "" {
		args = append(args, filter.CreatedBy)
		query += fmt.Sprintf(" and created_by = $%d", len(args))
	}
	query += " order by created_at desc"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" limit $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []rfp.ShipmentRfp
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) Update(ctx context.Context, p auth.Principal, id string, data rfp.Data) (rfp.ShipmentRfp, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	if !rfp.CanEdit(doc, p) {
		return rfp.ShipmentRfp{}, fmt.Errorf("%w: edit denied for %s", rfp.ErrActionForbidden, doc.Status)
	}
	if len(data.Route) == 0 {
		return rfp.ShipmentRfp{}, fmt.Errorf("%w: at least one route point is required", rfp.ErrInvalidInput)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return rfp.ShipmentRfp{}, fmt.Errorf("encode payload: %w", err)
	}
	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		update shipment_rfps set data = $1, updated_at = $2 where id = $3
	`, payload, now, id)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rfp.ShipmentRfp{}, rfp.ErrNotFound
	}
	doc.Data = data
	doc.UpdatedAt = now
	return doc, nil
}

func (s *Store) Delete(ctx context.Context, p auth.Principal, id string) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Status != rfp.StatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted", rfp.ErrActionForbidden)
	}
	if !p.IsAdmin() && doc.CreatedBy != p.UserID {
		return fmt.Errorf("%w: not the draft owner", rfp.ErrActionForbidden)
	}
	res, err := s.db.ExecContext(ctx, `delete from shipment_rfps where id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return rfp.ErrNotFound
	}
	return nil
}

func (s *Store) Perform(ctx context.Context, p auth.Principal, id string, action rfp.Action, carrier *catalog.Link) (rfp.ShipmentRfp, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		select id, status, created_by, assigned_carrier, data, created_at, updated_at
		from shipment_rfps where id = $1 for update
	`, id)
	doc, err := scanDocument(row)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}

	updated, err := rfp.ApplyAction(doc, p, action, carrier)
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	updated.UpdatedAt = s.now().UTC()

	var carrierJSON any
	if !updated.AssignedCarrier.IsZero() {
		data, err := json.Marshal(updated.AssignedCarrier)
		if err != nil {
			return rfp.ShipmentRfp{}, fmt.Errorf("encode carrier: %w", err)
		}
		carrierJSON = data
	}
	if _, err := tx.ExecContext(ctx, `
		update shipment_rfps set status = $1, assigned_carrier = $2, updated_at = $3 where id = $4
	`, string(updated.Status), carrierJSON, updated.UpdatedAt, id); err != nil {
		return rfp.ShipmentRfp{}, err
	}
	if err := tx.Commit(); err != nil {
		return rfp.ShipmentRfp{}, err
	}

	s.publish(rfp.Event{
		DocumentID: updated.ID,
		Status:     updated.Status,
		Action:     action,
		Actor:      p.UserID,
		Timestamp:  updated.UpdatedAt,
	})
	return updated, nil
}

func (s *Store) publish(ev rfp.Event) {
	if s.sink != nil {
		s.sink.Publish(ev)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (rfp.ShipmentRfp, error) {
	var (
		doc         rfp.ShipmentRfp
		status      string
		carrierJSON []byte
		payload     []byte
	)
	err := row.Scan(&doc.ID, &status, &doc.CreatedBy, &carrierJSON, &payload, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rfp.ShipmentRfp{}, rfp.ErrNotFound
	}
	if err != nil {
		return rfp.ShipmentRfp{}, err
	}
	doc.Status = rfp.Status(status)
	if len(carrierJSON) > 0 {
		if err := json.Unmarshal(carrierJSON, &doc.AssignedCarrier); err != nil {
			return rfp.ShipmentRfp{}, fmt.Errorf("decode carrier: %w", err)
		}
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &doc.Data); err != nil {
			return rfp.ShipmentRfp{}, fmt.Errorf("decode payload: %w", err)
		}
	}
	return doc, nil
}
