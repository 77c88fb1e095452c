// Package store provides RecordStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/rental-engine/rental"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	products    map[int64]rental.Product
	renters     map[int64]rental.Renter
	rentals     map[int64]rental.Rental
	obligations map[int64]rental.Obligation
	nextID      int64
}

func NewMemory() *Memory {
	return &Memory{
		products:    make(map[int64]rental.Product),
		renters:     make(map[int64]rental.Renter),
		rentals:     make(map[int64]rental.Rental),
		obligations: make(map[int64]rental.Obligation),
	}
}

func (m *Memory) nextIDLocked() int64 {
	m.nextID++
	return m.nextID
}

// -----------------------------------------------------------------------------
// Products
// -----------------------------------------------------------------------------

func (m *Memory) SaveProduct(_ context.Context, p rental.Product) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextIDLocked()
	p.CreatedAt = time.Now().UTC()
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *Memory) GetProduct(_ context.Context, id int64) (*rental.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) ListProducts(_ context.Context) ([]rental.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rental.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpdateProduct(_ context.Context, p rental.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.products[p.ID]
	if !ok {
		return rental.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	m.products[p.ID] = p
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return rental.ErrNotFound
	}
	delete(m.products, id)
	for rid, r := range m.rentals {
		if r.ProductID == id {
			m.deleteRentalLocked(rid)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Renters
// -----------------------------------------------------------------------------

func (m *Memory) SaveRenter(_ context.Context, r rental.Renter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextIDLocked()
	r.CreatedAt = time.Now().UTC()
	m.renters[r.ID] = r
	return r.ID, nil
}

func (m *Memory) GetRenter(_ context.Context, id int64) (*rental.Renter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.renters[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	return &r, nil
}

func (m *Memory) ListRenters(_ context.Context) ([]rental.Renter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rental.Renter
	for _, r := range m.renters {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *Memory) UpdateRenter(_ context.Context, r rental.Renter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.renters[r.ID]
	if !ok {
		return rental.ErrNotFound
	}
	r.CreatedAt = existing.CreatedAt
	m.renters[r.ID] = r
	return nil
}

func (m *Memory) DeleteRenter(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.renters[id]; !ok {
		return rental.ErrNotFound
	}
	delete(m.renters, id)
	for rid, r := range m.rentals {
		if r.RenterID == id {
			m.deleteRentalLocked(rid)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Rentals
// -----------------------------------------------------------------------------

// CreateRental stores the rental and its schedule under one lock, matching
// the all-or-nothing visibility of the SQLite implementation.
func (m *Memory) CreateRental(_ context.Context, r rental.Rental, schedule []rental.Obligation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.ID = m.nextIDLocked()
	r.Status = rental.StatusActive
	r.PaymentStatus = rental.PaymentUnpaid
	r.CreatedAt = time.Now().UTC()
	m.rentals[r.ID] = r

	for _, ob := range schedule {
		ob.ID = m.nextIDLocked()
		ob.RentalID = r.ID
		ob.CreatedAt = time.Now().UTC()
		m.obligations[ob.ID] = ob
	}
	return r.ID, nil
}

func (m *Memory) GetRental(_ context.Context, id int64) (*rental.Rental, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rentals[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	return &r, nil
}

func (m *Memory) GetRentalDetail(_ context.Context, id int64) (*rental.RentalDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rentals[id]
	if !ok {
		return nil, rental.ErrNotFound
	}
	d := m.detailLocked(r)
	return &d, nil
}

func (m *Memory) detailLocked(r rental.Rental) rental.RentalDetail {
	d := rental.RentalDetail{Rental: r}
	if p, ok := m.products[r.ProductID]; ok {
		d.ProductName = p.Name
		d.ProductType = p.Type
	}
	if rn, ok := m.renters[r.RenterID]; ok {
		d.RenterName = rn.FullName
		d.RenterPhone = rn.Phone
	}
	return d
}

func (m *Memory) ListRentals(_ context.Context) ([]rental.RentalDetail, error) {
	return m.listRentals(func(rental.Rental) bool { return true })
}

func (m *Memory) ListActiveRentals(_ context.Context) ([]rental.RentalDetail, error) {
	return m.listRentals(func(r rental.Rental) bool { return r.Status == rental.StatusActive })
}

func (m *Memory) listRentals(keep func(rental.Rental) bool) ([]rental.RentalDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rental.RentalDetail
	for _, r := range m.rentals {
		if keep(r) {
			out = append(out, m.detailLocked(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) UpdateRentalStatus(_ context.Context, id int64, status rental.RentalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return rental.ErrNotFound
	}
	r.Status = status
	m.rentals[id] = r
	return nil
}

func (m *Memory) UpdateRentalPaymentStatus(_ context.Context, id int64, status rental.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rentals[id]
	if !ok {
		return rental.ErrNotFound
	}
	r.PaymentStatus = status
	m.rentals[id] = r
	return nil
}

func (m *Memory) DeleteRental(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rentals[id]; !ok {
		return rental.ErrNotFound
	}
	m.deleteRentalLocked(id)
	return nil
}

func (m *Memory) deleteRentalLocked(id int64) {
	delete(m.rentals, id)
	for oid, ob := range m.obligations {
		if ob.RentalID == id {
			delete(m.obligations, oid)
		}
	}
}

// -----------------------------------------------------------------------------
// Obligations
// -----------------------------------------------------------------------------

func (m *Memory) ListObligations(_ context.Context, rentalID int64) ([]rental.Obligation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rental.Obligation
	for _, ob := range m.obligations {
		if ob.RentalID == rentalID {
			out = append(out, ob)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *Memory) ListUnpaidObligations(_ context.Context) ([]rental.ObligationDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rental.ObligationDetail
	for _, ob := range m.obligations {
		if ob.Status != rental.PaymentUnpaid {
			continue
		}
		r, ok := m.rentals[ob.RentalID]
		if !ok || r.Status != rental.StatusActive {
			continue
		}
		d := rental.ObligationDetail{Obligation: ob}
		if p, ok := m.products[r.ProductID]; ok {
			d.ProductName = p.Name
		}
		if rn, ok := m.renters[r.RenterID]; ok {
			d.RenterName = rn.FullName
			d.RenterPhone = rn.Phone
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *Memory) UpdateObligationStatus(_ context.Context, id int64, status rental.PaymentStatus, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ob, ok := m.obligations[id]
	if !ok {
		return rental.ErrNotFound
	}
	ob.Status = status
	ob.Note = note
	m.obligations[id] = ob
	return nil
}

// -----------------------------------------------------------------------------
// Report support
// -----------------------------------------------------------------------------

func (m *Memory) SumPaidObligations(_ context.Context) (rental.Amount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := rental.ZeroAmount()
	for _, ob := range m.obligations {
		if ob.Status == rental.PaymentPaid {
			total = total.Add(ob.Amount)
		}
	}
	return total, nil
}

func (m *Memory) RentalObligationTotals(_ context.Context, rentalID int64) (paid, expected rental.Amount, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paid, expected = rental.ZeroAmount(), rental.ZeroAmount()
	for _, ob := range m.obligations {
		if ob.RentalID != rentalID {
			continue
		}
		expected = expected.Add(ob.Amount)
		if ob.Status == rental.PaymentPaid {
			paid = paid.Add(ob.Amount)
		}
	}
	return paid, expected, nil
}

func (m *Memory) Counts(_ context.Context) (rental.StoreCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := rental.StoreCounts{
		Products: len(m.products),
		Renters:  len(m.renters),
	}
	for _, r := range m.rentals {
		if r.Status != rental.StatusActive {
			continue
		}
		c.ActiveRentals++
		if r.PaymentStatus == rental.PaymentPaid {
			c.PaidRentals++
		} else {
			c.UnpaidRentals++
		}
	}
	for _, ob := range m.obligations {
		if ob.Status == rental.PaymentUnpaid {
			c.UnpaidObligations++
		}
	}
	return c, nil
}
