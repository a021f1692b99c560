package catalog

import (
	"context"
	"errors"
)

var ErrBadCode = errors.New("codigo must be a positive integer")

// Product mirrors a row of the produto table.
type Product struct {
	Codigo    int64  `json:"codigo"`
	Descricao string `json:"descricao"`
}

type Store interface {
	Ping(ctx context.Context) error
	ListSortedByCode(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, codigo int64) (Product, bool, error)
}
