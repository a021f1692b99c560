package cart

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ShopCart/internal/session"
	"ShopCart/pkg/kit"
)

const defaultSessionTTL = 30 * time.Minute

type Server struct {
	Carts      *Registry
	Sessions   *session.TokenMaker
	SessionTTL time.Duration
	Catalog    ProductResolver
	Receipts   ReceiptStore
	Metrics    *Metrics
	Log        *zap.Logger
}

type sessionReq struct {
	CustomerID string `json:"customer_id"`
}

type sessionResp struct {
	AccessToken string    `json:"access_token"`
	CustomerID  string    `json:"customer_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type addItemReq struct {
	Product   *Product            `json:"product"`
	UnitPrice decimal.NullDecimal `json:"unit_price"`
	Quantity  int                 `json:"quantity"`
}

type removeItemReq struct {
	Product *Product `json:"product"`
}

type averageTicketResp struct {
	AverageTicket decimal.Decimal `json:"average_ticket"`
	Carts         int             `json:"carts"`
}

var (
	errNoCustomer  = errors.New("customer_id required")
	errNoCart      = errors.New("no cart")
	errEmptyCart   = errors.New("cart is empty")
	errBadPosition = errors.New("position must be an integer")
)

func (s *Server) openSession(w http.ResponseWriter, r *http.Request) {
	var req sessionReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	id := req.CustomerID
	c := s.Carts.CreateOrGet(id)
	if c == nil {
		kit.WriteError(w, r, http.StatusBadRequest, errNoCustomer.Error(), nil)
		return
	}

	ttl := s.sessionTTL()
	tok, err := s.Sessions.New(c.CustomerID(), ttl)
	if err != nil {
		s.logger().Error("session token issue", zap.Error(err), zap.String("customer_id", id))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.logger().Info("session opened", zap.String("customer_id", id))
	kit.WriteJSON(w, http.StatusCreated, sessionResp{
		AccessToken: tok,
		CustomerID:  id,
		ExpiresAt:   time.Now().Add(ttl).UTC(),
	})
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	c, ok := s.Carts.Get(customerID(r))
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, errNoCart.Error(), nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	p, err := s.resolveProduct(r.Context(), req.Product)
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}

	// A cart closed by a concurrent checkout is already gone from the
	// registry, so the second attempt lands in a fresh one.
	var c *Cart
	for attempt := 0; attempt < 2; attempt++ {
		c = s.Carts.CreateOrGet(customerID(r))
		err = c.AddItem(p, req.UnitPrice, req.Quantity)
		if !errors.Is(err, ErrCartClosed) {
			break
		}
	}
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}

	s.Metrics.itemAdded()
	kit.WriteJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	var req removeItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	removed := false
	if c, ok := s.Carts.Get(customerID(r)); ok {
		removed = c.RemoveItem(req.Product)
	}
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) removeItemAt(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		s.writeItemError(w, r, errBadPosition)
		return
	}

	removed := false
	if c, ok := s.Carts.Get(customerID(r)); ok {
		removed, err = c.RemoveAt(pos)
	} else if pos < 0 {
		err = ErrNegativePosition
	}
	if err != nil {
		s.writeItemError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	id := customerID(r)

	c, ok := s.Carts.Get(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, errNoCart.Error(), nil)
		return
	}
	if c.Len() == 0 {
		kit.WriteError(w, r, http.StatusConflict, errEmptyCart.Error(), nil)
		return
	}

	view, ok := s.Carts.Detach(c)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, errNoCart.Error(), nil)
		return
	}
	if len(view.Items) == 0 {
		s.Carts.Reattach(c)
		kit.WriteError(w, r, http.StatusConflict, errEmptyCart.Error(), nil)
		return
	}

	receipt := NewReceipt(view, time.Now())
	if err := s.Receipts.Save(r.Context(), receipt); err != nil {
		s.logger().Error("save receipt failed", zap.Error(err), zap.String("customer_id", id))
		if !s.Carts.Reattach(c) {
			s.logger().Warn("cart replaced during failed checkout", zap.String("customer_id", id))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "checkout unavailable", nil)
		return
	}

	s.Metrics.checkedOut()
	s.logger().Info("cart checked out",
		zap.String("customer_id", id),
		zap.String("receipt_id", receipt.ID),
		zap.String("total", receipt.Total.StringFixed(2)),
	)
	kit.WriteJSON(w, http.StatusOK, receipt)
}

func (s *Server) invalidate(w http.ResponseWriter, r *http.Request) {
	id := customerID(r)

	ok := s.Carts.Invalidate(id)
	if ok {
		s.Metrics.invalidated()
		s.logger().Info("cart invalidated", zap.String("customer_id", id))
	}
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"invalidated": ok})
}

func (s *Server) listReceipts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Receipts.List(r.Context(), customerID(r))
	if err != nil {
		s.logger().Error("list receipts failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "receipts unavailable", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string][]string{"receipts": ids})
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, err := s.Receipts.Get(r.Context(), customerID(r), id)
	switch {
	case errors.Is(err, ErrReceiptNotFound):
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	case err != nil:
		s.logger().Error("get receipt failed", zap.Error(err), zap.String("receipt_id", id))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "receipts unavailable", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, rc)
}

func (s *Server) averageTicket(w http.ResponseWriter, r *http.Request) {
	avg, n, err := s.Carts.TicketSummary()
	if errors.Is(err, ErrEmptyRegistry) {
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, averageTicketResp{
		AverageTicket: avg,
		Carts:         n,
	})
}

func (s *Server) listCarts(w http.ResponseWriter, r *http.Request) {
	out := make([]View, 0, s.Carts.Len())
	for _, id := range s.Carts.CustomerIDs() {
		if c, ok := s.Carts.Get(id); ok {
			out = append(out, c.Snapshot())
		}
	}
	kit.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()

	if err := s.Receipts.Ping(ctx); err != nil {
		s.logger().Warn("readyz failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// resolveProduct swaps a product carrying a valid codigo for the catalog's
// version. Anything else is left for AddItem to validate.
func (s *Server) resolveProduct(ctx context.Context, p *Product) (*Product, error) {
	if s.Catalog == nil || !p.HasID() || *p.ID < 1 {
		return p, nil
	}

	resolved, err := s.Catalog.Resolve(ctx, *p.ID)
	if err != nil {
		if !errors.Is(err, ErrUnknownProduct) {
			s.logger().Warn("catalog error", zap.Error(err), zap.Int64("codigo", *p.ID))
		}
		return nil, err
	}
	return resolved, nil
}

func (s *Server) writeItemError(w http.ResponseWriter, r *http.Request, err error) {
	var iae *InvalidArgumentError
	switch {
	case errors.As(err, &iae):
		kit.WriteError(w, r, http.StatusBadRequest, iae.Message, nil)
	case errors.Is(err, ErrNegativePosition), errors.Is(err, errBadPosition):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrCartClosed):
		kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrUnknownProduct):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrCatalogUnavailable):
		kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
	case errors.Is(err, ErrCatalogBadStatus):
		kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
	default:
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func (s *Server) sessionTTL() time.Duration {
	if s.SessionTTL <= 0 {
		return defaultSessionTTL
	}
	return s.SessionTTL
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func customerID(r *http.Request) string {
	id, _ := session.CustomerFromContext(r.Context())
	return id
}
