package cart

import "github.com/shopspring/decimal"

type ItemView struct {
	Product   Product         `json:"product"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type View struct {
	CustomerID string          `json:"customer_id"`
	Items      []ItemView      `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// Snapshot copies the cart under its lock so the result stays consistent
// while other requests keep mutating the cart.
func (c *Cart) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		CustomerID: c.customerID,
		Items:      make([]ItemView, 0, len(c.items)),
		Total:      c.total(),
	}
	for _, it := range c.items {
		v.Items = append(v.Items, ItemView{
			Product:   *it.Product(),
			UnitPrice: it.UnitPrice(),
			Quantity:  it.Quantity(),
			Subtotal:  it.Subtotal(),
		})
	}
	return v
}

// Price wraps a known unit price for AddItem.
func Price(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}
