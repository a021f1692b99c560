package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

const ticketPlaces = 2

// Registry keeps one Cart per customer id in first-seen order.
type Registry struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	order []string
}

func NewRegistry() *Registry {
	return &Registry{carts: map[string]*Cart{}}
}

// CreateOrGet returns nil for an empty customer id.
func (r *Registry) CreateOrGet(customerID string) *Cart {
	if customerID == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.carts[customerID]; ok {
		return c
	}
	c := NewCart(customerID)
	r.carts[customerID] = c
	r.order = append(r.order, customerID)
	return c
}

func (r *Registry) Get(customerID string) (*Cart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.carts[customerID]
	return c, ok
}

func (r *Registry) Invalidate(customerID string) bool {
	if customerID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[customerID]; !ok {
		return false
	}
	r.remove(customerID)
	return true
}

// AverageTicket is the mean cart total rounded half-up to two places.
func (r *Registry) AverageTicket() (decimal.Decimal, error) {
	avg, _, err := r.TicketSummary()
	return avg, err
}

// TicketSummary returns the average ticket together with the number of carts
// it was computed over, both read under one lock.
func (r *Registry) TicketSummary() (decimal.Decimal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.order)
	if n == 0 {
		return decimal.Zero, 0, ErrEmptyRegistry
	}

	sum := decimal.Zero
	for _, id := range r.order {
		sum = sum.Add(r.carts[id].Total())
	}
	// Totals are never negative, so half-away-from-zero is half-up here.
	return sum.DivRound(decimal.NewFromInt(int64(n)), ticketPlaces), n, nil
}

// Detach claims c for checkout. It succeeds only while c is still the cart
// registered for its customer; the cart is then closed and removed, and the
// returned view is its final content. Of concurrent callers at most one wins.
func (r *Registry) Detach(c *Cart) (View, bool) {
	if c == nil {
		return View{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.carts[c.customerID] != c {
		return View{}, false
	}

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	r.remove(c.customerID)
	return c.Snapshot(), true
}

// Reattach reopens a detached cart and registers it again at the end of the
// order. It fails when the customer already has a newer cart.
func (r *Registry) Reattach(c *Cart) bool {
	if c == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[c.customerID]; ok {
		return false
	}

	c.mu.Lock()
	c.closed = false
	c.mu.Unlock()

	r.carts[c.customerID] = c
	r.order = append(r.order, c.customerID)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) CustomerIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) remove(customerID string) {
	delete(r.carts, customerID)
	for i, id := range r.order {
		if id == customerID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
