package cart

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Cart holds at most one LineItem per distinct product, in insertion order.
// Two carts are equal when they belong to the same customer.
type Cart struct {
	customerID string

	mu     sync.Mutex
	items  []*LineItem
	closed bool
}

func NewCart(customerID string) *Cart {
	return &Cart{customerID: customerID}
}

func (c *Cart) CustomerID() string { return c.customerID }

func (c *Cart) Equal(o *Cart) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.customerID == o.customerID
}

// AddItem merges into the existing line for the same product: the price is
// replaced by the new one and the quantities are summed. The cart keeps its
// own copy of p. A merge that would push the line past MaxQuantity fails and
// leaves the cart unchanged.
func (c *Cart) AddItem(p *Product, unitPrice decimal.NullDecimal, quantity int) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if err := validateUnitPrice(unitPrice); err != nil {
		return err
	}
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCartClosed
	}

	if it, _ := c.find(p); it != nil {
		if quantity > MaxQuantity-it.Quantity() {
			return invalidArgument(MsgQuantityTooLarge)
		}
		if !it.UnitPrice().Equal(unitPrice.Decimal) {
			it.SetUnitPrice(unitPrice.Decimal)
		}
		it.SetQuantity(it.Quantity() + quantity)
		return nil
	}

	c.items = append(c.items, NewLineItem(p.clone(), unitPrice.Decimal, quantity))
	return nil
}

func (c *Cart) RemoveItem(p *Product) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, idx := c.find(p)
	if idx < 0 || c.closed {
		return false
	}
	c.removeAt(idx)
	return true
}

// RemoveAt removes the item at the zero-based insertion position. A position
// past the end is not an error and reports false.
func (c *Cart) RemoveAt(position int) (bool, error) {
	if position < 0 {
		return false, ErrNegativePosition
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if position >= len(c.items) || c.closed {
		return false, nil
	}
	c.removeAt(position)
	return true, nil
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// Items returns the cart's line items in insertion order. The LineItems are
// shared with the cart; the slice itself is a copy, so removals must go
// through RemoveItem or RemoveAt.
func (c *Cart) Items() []*LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Closed reports whether the cart was detached from its registry for checkout.
// A closed cart rejects additions and ignores removals.
func (c *Cart) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Cart) find(p *Product) (*LineItem, int) {
	if p == nil {
		return nil, -1
	}
	for i, it := range c.items {
		if it.Product().Equal(p) {
			return it, i
		}
	}
	return nil, -1
}

func (c *Cart) removeAt(i int) {
	copy(c.items[i:], c.items[i+1:])
	c.items[len(c.items)-1] = nil
	c.items = c.items[:len(c.items)-1]
}

func (c *Cart) total() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

func validateProduct(p *Product) error {
	if p == nil {
		return invalidArgument(MsgProductMissing)
	}
	if p.ID != nil && *p.ID < 1 {
		return invalidArgument(MsgProductIDInvalid)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 1 {
		return invalidArgument(MsgQuantityInvalid)
	}
	if quantity > MaxQuantity {
		return invalidArgument(MsgQuantityTooLarge)
	}
	return nil
}

func validateUnitPrice(price decimal.NullDecimal) error {
	if !price.Valid {
		return invalidArgument(MsgPriceMissing)
	}
	if !price.Decimal.IsPositive() {
		return invalidArgument(MsgPriceNotPositive)
	}
	return nil
}
