package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	maxotel "github.com/Quinntas/max/internal/otel"
)

var tracer = maxotel.Tracer("github.com/Quinntas/max/internal/inventory")

const schema = `
CREATE TABLE IF NOT EXISTS vehicles (
    vin TEXT PRIMARY KEY,
    make TEXT NOT NULL,
    model TEXT NOT NULL,
    year INTEGER NOT NULL,
    trim TEXT NOT NULL DEFAULT '',
    price REAL NOT NULL DEFAULT 0,
    mileage INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'AVAILABLE',
    exterior_color TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_vehicles_make_model ON vehicles(make, model);
CREATE INDEX IF NOT EXISTS idx_vehicles_status ON vehicles(status);
`

// Store is a SQLite-backed inventory, refreshed from dealership feed files.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the inventory database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing inventory schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Search returns vehicles matching the query, unsold first come first.
// Make and model match case-insensitively; sold units are excluded.
func (s *Store) Search(ctx context.Context, q Query) ([]Vehicle, error) {
	ctx, span := tracer.Start(ctx, "inventory.search")
	defer span.End()

	var (
		conds []string
		args  []interface{}
	)
	conds = append(conds, "status != ?")
	args = append(args, StatusSold)
	if q.Make != "" {
		conds = append(conds, "make = ? COLLATE NOCASE")
		args = append(args, q.Make)
	}
	if q.Model != "" {
		conds = append(conds, "model = ? COLLATE NOCASE")
		args = append(args, q.Model)
	}
	if q.Year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, q.Year)
	}
	if q.MaxPrice > 0 {
		conds = append(conds, "price <= ?")
		args = append(args, q.MaxPrice)
	}

	query := "SELECT vin, make, model, year, trim, price, mileage, status, exterior_color FROM vehicles WHERE " +
		strings.Join(conds, " AND ") + " ORDER BY year DESC, price ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("searching inventory: %w", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.VIN, &v.Make, &v.Model, &v.Year, &v.Trim, &v.Price, &v.Mileage, &v.Status, &v.ExteriorColor); err != nil {
			return nil, fmt.Errorf("scanning vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetByVIN returns a single vehicle, or nil when absent.
func (s *Store) GetByVIN(ctx context.Context, vin string) (*Vehicle, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT vin, make, model, year, trim, price, mileage, status, exterior_color FROM vehicles WHERE vin = ?", vin)
	var v Vehicle
	err := row.Scan(&v.VIN, &v.Make, &v.Model, &v.Year, &v.Trim, &v.Price, &v.Mileage, &v.Status, &v.ExteriorColor)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting vehicle %s: %w", vin, err)
	}
	return &v, nil
}

// ImportFeed replaces the inventory with the contents of a JSON feed file
// (an array of Vehicle objects). Dealership feeds are full snapshots, so
// the import runs as delete-and-reload inside one transaction.
func (s *Store) ImportFeed(ctx context.Context, path string) (int, error) {
	ctx, span := tracer.Start(ctx, "inventory.import_feed")
	defer span.End()

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading inventory feed %s: %w", path, err)
	}

	var vehicles []Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return 0, fmt.Errorf("parsing inventory feed %s: %w", path, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting feed import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vehicles"); err != nil {
		return 0, fmt.Errorf("clearing inventory: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO vehicles (vin, make, model, year, trim, price, mileage, status, exterior_color) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing feed insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		if v.Status == "" {
			v.Status = StatusAvailable
		}
		if _, err := stmt.ExecContext(ctx, v.VIN, v.Make, v.Model, v.Year, v.Trim, v.Price, v.Mileage, v.Status, v.ExteriorColor); err != nil {
			return 0, fmt.Errorf("inserting vehicle %s: %w", v.VIN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing feed import: %w", err)
	}

	log.Info().Int("vehicles", len(vehicles)).Str("feed", path).Msg("inventory_feed_imported")
	return len(vehicles), nil
}
