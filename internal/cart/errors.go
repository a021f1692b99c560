package cart

import (
	"errors"
	"math"
)

// MaxQuantity bounds a single line so merged quantities never overflow.
const MaxQuantity = math.MaxInt32

const (
	MsgProductMissing   = "cart failure: product was not provided."
	MsgProductIDInvalid = "cart failure: product id was not provided."
	MsgPriceMissing     = "item-add failure: unit price is invalid."
	MsgPriceNotPositive = "item-add failure: unit price cannot be negative."
	MsgQuantityInvalid  = "cart failure: quantity must be greater than zero(0)."
	MsgQuantityTooLarge = "cart failure: quantity exceeds the maximum allowed."
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrEmptyRegistry    = errors.New("no active carts")
	ErrNegativePosition = errors.New("item position cannot be negative")
	ErrCartClosed       = errors.New("cart is closed")
)

// InvalidArgumentError carries one of the Msg* texts above. Callers match on
// the message, so it is returned unwrapped.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string { return e.Message }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalidArgument(msg string) error {
	return &InvalidArgumentError{Message: msg}
}
