package cart

import "github.com/shopspring/decimal"

type LineItem struct {
	product   *Product
	unitPrice decimal.Decimal
	quantity  int
}

// NewLineItem stores its arguments as given. Callers validate.
func NewLineItem(product *Product, unitPrice decimal.Decimal, quantity int) *LineItem {
	return &LineItem{product: product, unitPrice: unitPrice, quantity: quantity}
}

func (it *LineItem) Product() *Product          { return it.product }
func (it *LineItem) UnitPrice() decimal.Decimal { return it.unitPrice }
func (it *LineItem) Quantity() int              { return it.quantity }

func (it *LineItem) Subtotal() decimal.Decimal {
	return it.unitPrice.Mul(decimal.NewFromInt(int64(it.quantity)))
}

func (it *LineItem) SetUnitPrice(p decimal.Decimal) { it.unitPrice = p }
func (it *LineItem) SetQuantity(q int)              { it.quantity = q }

// Equal compares product, unit price and quantity. Prices compare by value,
// so 10 and 10.00 are equal.
func (it *LineItem) Equal(o *LineItem) bool {
	if it == nil || o == nil {
		return it == o
	}
	return it.product.Equal(o.product) &&
		it.unitPrice.Equal(o.unitPrice) &&
		it.quantity == o.quantity
}
