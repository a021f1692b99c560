package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrReceiptNotFound = errors.New("receipt not found")

// Receipt is the frozen content of a cart at checkout.
type Receipt struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Items      []ItemView      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	ClosedAt   time.Time       `json:"closed_at"`
}

func NewReceipt(v View, closedAt time.Time) Receipt {
	return Receipt{
		ID:         "r_" + uuid.NewString(),
		CustomerID: v.CustomerID,
		Items:      v.Items,
		Total:      v.Total,
		ClosedAt:   closedAt.UTC(),
	}
}

type ReceiptStore interface {
	Save(ctx context.Context, r Receipt) error
	Get(ctx context.Context, customerID, id string) (Receipt, error)
	List(ctx context.Context, customerID string) ([]string, error)
	Ping(ctx context.Context) error
}
