package cart

// Product is treated as immutable. Carts store their own copy, so changing a
// Product after adding it does not reach into the cart.
type Product struct {
	ID          *int64 `json:"codigo,omitempty"`
	Description string `json:"descricao"`
}

func NewProduct(id int64, description string) *Product {
	return &Product{ID: &id, Description: description}
}

// NewUnassignedProduct builds a product that has not been given a codigo yet.
func NewUnassignedProduct(description string) *Product {
	return &Product{Description: description}
}

func (p *Product) HasID() bool {
	return p != nil && p.ID != nil
}

func (p *Product) Equal(o *Product) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.Description != o.Description {
		return false
	}
	if p.ID == nil || o.ID == nil {
		return p.ID == nil && o.ID == nil
	}
	return *p.ID == *o.ID
}

func (p *Product) clone() *Product {
	cp := *p
	if p.ID != nil {
		id := *p.ID
		cp.ID = &id
	}
	return &cp
}
