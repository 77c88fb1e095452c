/*
Package sqlite provides a SQLite-backed implementation of rental.RecordStore.

PURPOSE:
  Implements the record store consumed by the engine and the report layer
  using SQLite. In production, the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  products:  Rentable items
  renters:   Tenants
  rentals:   Agreements (lifecycle + portfolio-level payment status)
  payments:  Obligation rows, one per billing period, cascade-deleted
             with their rental

ATOMIC CREATION:
  CreateRental inserts the rental row and every obligation row inside one
  SQL transaction. A rental is never visible without its full schedule.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead. Report scans
  are plain read-committed reads; slight staleness under concurrent
  writes is acceptable for this domain.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/rentals.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - rental/store.go: Interface definition
  - rental/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/rental-engine/rental"
)

// Store implements rental.RecordStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK(type IN ('bed', 'equipment')),
		rental_price TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS renters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		phone TEXT,
		email TEXT,
		address TEXT,
		id_number TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rentals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL,
		renter_id INTEGER NOT NULL,
		cadence TEXT NOT NULL CHECK(cadence IN ('monthly', 'yearly')),
		unit_price TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'returned')),
		payment_status TEXT NOT NULL DEFAULT 'unpaid' CHECK(payment_status IN ('paid', 'unpaid')),
		created_at TEXT NOT NULL,
		FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
		FOREIGN KEY (renter_id) REFERENCES renters(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_rentals_renter ON rentals(renter_id);
	CREATE INDEX IF NOT EXISTS idx_rentals_status ON rentals(status);
	CREATE INDEX IF NOT EXISTS idx_rentals_payment_status
		ON rentals(payment_status, status);

	CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rental_id INTEGER NOT NULL,
		period_label TEXT NOT NULL,
		due_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'unpaid' CHECK(status IN ('paid', 'unpaid')),
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (rental_id) REFERENCES rentals(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_payments_rental ON payments(rental_id);
	CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status);

	-- One obligation per billing period per rental
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_rental_period
		ON payments(rental_id, period_label);
	`

	_, err := s.db.Exec(schema)
	return err
}

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

// =============================================================================
// PRODUCTS
// =============================================================================

func (s *Store) SaveProduct(ctx context.Context, p rental.Product) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, type, rental_price, created_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Type, p.RentalPrice.String(), nowISO())
	if err != nil {
		return 0, fmt.Errorf("failed to save product: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*rental.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, type, rental_price, created_at FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

func (s *Store) ListProducts(ctx context.Context) ([]rental.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, rental_price, created_at FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []rental.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *Store) UpdateProduct(ctx context.Context, p rental.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, type = ?, rental_price = ? WHERE id = ?`,
		p.Name, p.Type, p.RentalPrice.String(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// RENTERS
// =============================================================================

func (s *Store) SaveRenter(ctx context.Context, r rental.Renter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO renters (full_name, phone, email, address, id_number, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.FullName, r.Phone, r.Email, r.Address, r.IDNumber, nowISO())
	if err != nil {
		return 0, fmt.Errorf("failed to save renter: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetRenter(ctx context.Context, id int64) (*rental.Renter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, phone, email, address, id_number, created_at
		 FROM renters WHERE id = ?`, id)
	return scanRenter(row)
}

func (s *Store) ListRenters(ctx context.Context) ([]rental.Renter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, phone, email, address, id_number, created_at
		 FROM renters ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list renters: %w", err)
	}
	defer rows.Close()

	var renters []rental.Renter
	for rows.Next() {
		r, err := scanRenter(rows)
		if err != nil {
			return nil, err
		}
		renters = append(renters, *r)
	}
	return renters, rows.Err()
}

func (s *Store) UpdateRenter(ctx context.Context, r rental.Renter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE renters SET full_name = ?, phone = ?, email = ?, address = ?, id_number = ?
		 WHERE id = ?`,
		r.FullName, r.Phone, r.Email, r.Address, r.IDNumber, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update renter: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteRenter(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM renters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete renter: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// RENTALS
// =============================================================================

// CreateRental inserts the rental and its full obligation schedule in one
// transaction. Either all rows become visible or none do.
func (s *Store) CreateRental(ctx context.Context, r rental.Rental, schedule []rental.Obligation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var endDate any
	if r.EndDate != nil {
		endDate = r.EndDate.String()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rentals (product_id, renter_id, cadence, unit_price, start_date,
		                      end_date, status, payment_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 'active', 'unpaid', ?)`,
		r.ProductID, r.RenterID, r.Cadence, r.UnitPrice.String(),
		r.StartDate.String(), endDate, nowISO())
	if err != nil {
		return 0, fmt.Errorf("failed to create rental: %w", err)
	}

	rentalID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ob := range schedule {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO payments (rental_id, period_label, due_date, amount, status, notes, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rentalID, ob.PeriodLabel, ob.DueDate.String(), ob.Amount.String(),
			ob.Status, ob.Note, nowISO())
		if err != nil {
			return 0, fmt.Errorf("failed to insert obligation %s: %w", ob.PeriodLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rental creation: %w", err)
	}
	return rentalID, nil
}

func (s *Store) GetRental(ctx context.Context, id int64) (*rental.Rental, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, product_id, renter_id, cadence, unit_price, start_date, end_date,
		        status, payment_status, created_at
		 FROM rentals WHERE id = ?`, id)
	return scanRental(row)
}

const rentalDetailQuery = `
	SELECT r.id, r.product_id, r.renter_id, r.cadence, r.unit_price, r.start_date,
	       r.end_date, r.status, r.payment_status, r.created_at,
	       p.name, p.type, rn.full_name, rn.phone
	FROM rentals r
	JOIN products p ON r.product_id = p.id
	JOIN renters rn ON r.renter_id = rn.id`

func (s *Store) GetRentalDetail(ctx context.Context, id int64) (*rental.RentalDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, rentalDetailQuery+` WHERE r.id = ?`, id)
	return scanRentalDetail(row)
}

func (s *Store) ListRentals(ctx context.Context) ([]rental.RentalDetail, error) {
	return s.queryRentalDetails(ctx, rentalDetailQuery+` ORDER BY r.created_at DESC`)
}

func (s *Store) ListActiveRentals(ctx context.Context) ([]rental.RentalDetail, error) {
	return s.queryRentalDetails(ctx,
		rentalDetailQuery+` WHERE r.status = 'active' ORDER BY r.start_date DESC`)
}

func (s *Store) queryRentalDetails(ctx context.Context, query string, args ...any) ([]rental.RentalDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	var details []rental.RentalDetail
	for rows.Next() {
		d, err := scanRentalDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

func (s *Store) UpdateRentalStatus(ctx context.Context, id int64, status rental.RentalStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE rentals SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update rental status: %w", err)
	}
	return requireRow(res)
}

func (s *Store) UpdateRentalPaymentStatus(ctx context.Context, id int64, status rental.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE rentals SET payment_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update rental payment status: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteRental(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// ON DELETE CASCADE removes the obligation rows.
	res, err := s.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rental: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// OBLIGATIONS
// =============================================================================

func (s *Store) ListObligations(ctx context.Context, rentalID int64) ([]rental.Obligation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, rental_id, period_label, due_date, amount, status, notes, created_at
		 FROM payments WHERE rental_id = ? ORDER BY due_date`, rentalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	defer rows.Close()

	var obligations []rental.Obligation
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		obligations = append(obligations, *ob)
	}
	return obligations, rows.Err()
}

func (s *Store) ListUnpaidObligations(ctx context.Context) ([]rental.ObligationDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT py.id, py.rental_id, py.period_label, py.due_date, py.amount,
		       py.status, py.notes, py.created_at,
		       p.name, rn.full_name, rn.phone
		FROM payments py
		JOIN rentals r ON py.rental_id = r.id
		JOIN products p ON r.product_id = p.id
		JOIN renters rn ON r.renter_id = rn.id
		WHERE py.status = 'unpaid' AND r.status = 'active'
		ORDER BY py.due_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid obligations: %w", err)
	}
	defer rows.Close()

	var details []rental.ObligationDetail
	for rows.Next() {
		var d rental.ObligationDetail
		var due, amount, created string
		err := rows.Scan(&d.ID, &d.RentalID, &d.PeriodLabel, &due, &amount,
			&d.Status, &d.Note, &created,
			&d.ProductName, &d.RenterName, &d.RenterPhone)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation: %w", err)
		}
		if d.DueDate, err = rental.ParseDate(due); err != nil {
			return nil, err
		}
		if d.Amount, err = rental.ParseAmount(amount); err != nil {
			return nil, err
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339, created)
		details = append(details, d)
	}
	return details, rows.Err()
}

func (s *Store) UpdateObligationStatus(ctx context.Context, id int64, status rental.PaymentStatus, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, notes = ? WHERE id = ?`, status, note, id)
	if err != nil {
		return fmt.Errorf("failed to update obligation status: %w", err)
	}
	return requireRow(res)
}

// =============================================================================
// REPORT SUPPORT
// =============================================================================

// SumPaidObligations totals the amounts of all paid obligation rows.
// Amounts are stored as decimal strings, so the sum is computed in Go.
func (s *Store) SumPaidObligations(ctx context.Context) (rental.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sumAmounts(ctx, `SELECT amount FROM payments WHERE status = 'paid'`)
}

// RentalObligationTotals returns the paid and expected obligation sums for
// one rental.
func (s *Store) RentalObligationTotals(ctx context.Context, rentalID int64) (paid, expected rental.Amount, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paid, err = s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE rental_id = ? AND status = 'paid'`, rentalID)
	if err != nil {
		return rental.Amount{}, rental.Amount{}, err
	}
	expected, err = s.sumAmounts(ctx,
		`SELECT amount FROM payments WHERE rental_id = ?`, rentalID)
	if err != nil {
		return rental.Amount{}, rental.Amount{}, err
	}
	return paid, expected, nil
}

func (s *Store) sumAmounts(ctx context.Context, query string, args ...any) (rental.Amount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return rental.Amount{}, fmt.Errorf("failed to sum amounts: %w", err)
	}
	defer rows.Close()

	total := rental.ZeroAmount()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return rental.Amount{}, err
		}
		a, err := rental.ParseAmount(raw)
		if err != nil {
			return rental.Amount{}, err
		}
		total = total.Add(a)
	}
	return total, rows.Err()
}

// Counts returns the raw counts behind the dashboard.
func (s *Store) Counts(ctx context.Context) (rental.StoreCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c rental.StoreCounts
	queries := []struct {
		dst   *int
		query string
	}{
		{&c.Products, `SELECT COUNT(*) FROM products`},
		{&c.Renters, `SELECT COUNT(*) FROM renters`},
		{&c.ActiveRentals, `SELECT COUNT(*) FROM rentals WHERE status = 'active'`},
		{&c.PaidRentals, `SELECT COUNT(*) FROM rentals WHERE payment_status = 'paid' AND status = 'active'`},
		{&c.UnpaidRentals, `SELECT COUNT(*) FROM rentals WHERE payment_status = 'unpaid' AND status = 'active'`},
		{&c.UnpaidObligations, `SELECT COUNT(*) FROM payments WHERE status = 'unpaid'`},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return rental.StoreCounts{}, fmt.Errorf("failed to count: %w", err)
		}
	}
	return c, nil
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*rental.Product, error) {
	var p rental.Product
	var price, created string
	err := row.Scan(&p.ID, &p.Name, &p.Type, &price, &created)
	if err == sql.ErrNoRows {
		return nil, rental.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	if p.RentalPrice, err = rental.ParseAmount(price); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &p, nil
}

func scanRenter(row scanner) (*rental.Renter, error) {
	var r rental.Renter
	var created string
	err := row.Scan(&r.ID, &r.FullName, &r.Phone, &r.Email, &r.Address, &r.IDNumber, &created)
	if err == sql.ErrNoRows {
		return nil, rental.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan renter: %w", err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &r, nil
}

func scanRentalFields(row scanner, r *rental.Rental, extra ...any) error {
	var price, start, created string
	var end sql.NullString
	fields := []any{&r.ID, &r.ProductID, &r.RenterID, &r.Cadence, &price, &start,
		&end, &r.Status, &r.PaymentStatus, &created}
	fields = append(fields, extra...)

	err := row.Scan(fields...)
	if err == sql.ErrNoRows {
		return rental.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to scan rental: %w", err)
	}

	if r.UnitPrice, err = rental.ParseAmount(price); err != nil {
		return err
	}
	if r.StartDate, err = rental.ParseDate(start); err != nil {
		return err
	}
	if end.Valid {
		d, err := rental.ParseDate(end.String)
		if err != nil {
			return err
		}
		r.EndDate = &d
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return nil
}

func scanRental(row scanner) (*rental.Rental, error) {
	var r rental.Rental
	if err := scanRentalFields(row, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRentalDetail(row scanner) (*rental.RentalDetail, error) {
	var d rental.RentalDetail
	err := scanRentalFields(row, &d.Rental,
		&d.ProductName, &d.ProductType, &d.RenterName, &d.RenterPhone)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanObligation(row scanner) (*rental.Obligation, error) {
	var ob rental.Obligation
	var due, amount, created string
	err := row.Scan(&ob.ID, &ob.RentalID, &ob.PeriodLabel, &due, &amount,
		&ob.Status, &ob.Note, &created)
	if err == sql.ErrNoRows {
		return nil, rental.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan obligation: %w", err)
	}
	if ob.DueDate, err = rental.ParseDate(due); err != nil {
		return nil, err
	}
	if ob.Amount, err = rental.ParseAmount(amount); err != nil {
		return nil, err
	}
	ob.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &ob, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return rental.ErrNotFound
	}
	return nil
}
