package gateway_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ShopCart/internal/cart"
	"ShopCart/internal/catalog"
	"ShopCart/internal/gateway"
	"ShopCart/internal/session"
)

const sessionSecret = "test-secret-test-secret-test-secret"

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &catalog.Server{Store: catalog.NewStore()}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})

	return httptest.NewServer(h)
}

func newCartTS(t *testing.T, catalogURL string) *httptest.Server {
	t.Helper()

	s := &cart.Server{
		Carts:      cart.NewRegistry(),
		Sessions:   session.NewTokenMaker(sessionSecret),
		SessionTTL: time.Minute,
		Catalog:    cart.NewCatalogClient(catalogURL),
	}

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:        zap.NewNop(),
		Service:    "cart",
		AdminToken: "admin",
	})

	return httptest.NewServer(h)
}

func newGatewayTS(t *testing.T, cartURL, catalogURL string) *httptest.Server {
	t.Helper()

	h, err := gateway.NewHandler(
		gateway.Deps{
			SessionSecret: sessionSecret,
			CartURL:       cartURL,
			CatalogURL:    catalogURL,
		},
		gateway.HTTPDeps{
			Log:     zap.NewNop(),
			Service: "gateway",
		},
	)
	if err != nil {
		t.Fatalf("gateway.NewHandler: %v", err)
	}

	return httptest.NewServer(h)
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func startStack(t *testing.T) *httptest.Server {
	t.Helper()

	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	cartTS := newCartTS(t, catalogTS.URL)
	t.Cleanup(cartTS.Close)

	gwTS := newGatewayTS(t, cartTS.URL, catalogTS.URL)
	t.Cleanup(gwTS.Close)

	return gwTS
}

func TestGateway_PublicAPI_HappyPath(t *testing.T) {
	gwTS := startStack(t)
	c := &http.Client{}

	{
		resp, raw := doJSON(t, c, http.MethodGet, gwTS.URL+"/readyz", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("readyz status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	var products []catalog.Product
	{
		resp, raw := doJSON(t, c, http.MethodGet, gwTS.URL+"/products", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("products status=%d body=%s", resp.StatusCode, string(raw))
		}
		if err := json.Unmarshal(raw, &products); err != nil {
			t.Fatalf("decode products: %v body=%s", err, string(raw))
		}
		if len(products) < 2 {
			t.Fatalf("products=%+v", products)
		}
	}

	var accessToken string
	{
		resp, raw := doJSON(t, c, http.MethodPost, gwTS.URL+"/sessions", map[string]any{
			"customer_id": "7002AAA",
		}, nil)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("session status=%d body=%s", resp.StatusCode, string(raw))
		}

		var sr struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(raw, &sr); err != nil {
			t.Fatalf("decode session: %v body=%s", err, string(raw))
		}
		if sr.AccessToken == "" {
			t.Fatalf("empty access_token")
		}
		accessToken = sr.AccessToken
	}
	auth := map[string]string{"Authorization": "Bearer " + accessToken}

	for _, it := range []struct {
		codigo int64
		price  string
		qty    int
	}{
		{products[0].Codigo, "49.90", 2},
		{products[1].Codigo, "19.90", 1},
	} {
		resp, raw := doJSON(t, c, http.MethodPost, gwTS.URL+"/cart/items", map[string]any{
			"product":    map[string]any{"codigo": it.codigo, "descricao": "ignored"},
			"unit_price": it.price,
			"quantity":   it.qty,
		}, auth)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add item status=%d body=%s", resp.StatusCode, string(raw))
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, gwTS.URL+"/cart", nil, auth)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get cart status=%d body=%s", resp.StatusCode, string(raw))
		}

		var v cart.View
		if err := json.Unmarshal(raw, &v); err != nil {
			t.Fatalf("decode cart: %v body=%s", err, string(raw))
		}
		if len(v.Items) != 2 {
			t.Fatalf("items=%d", len(v.Items))
		}
		if v.Items[0].Product.Description != products[0].Descricao {
			t.Fatalf("product not resolved through catalog: %+v", v.Items[0].Product)
		}
		if !v.Total.Equal(decimal.RequireFromString("119.70")) {
			t.Fatalf("total=%s", v.Total)
		}
	}

	var receipt cart.Receipt
	{
		resp, raw := doJSON(t, c, http.MethodPost, gwTS.URL+"/cart/checkout", nil, auth)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("checkout status=%d body=%s", resp.StatusCode, string(raw))
		}
		if err := json.Unmarshal(raw, &receipt); err != nil {
			t.Fatalf("decode receipt: %v body=%s", err, string(raw))
		}
		if receipt.ID == "" {
			t.Fatalf("empty receipt id")
		}
	}

	{
		resp, raw := doJSON(t, c, http.MethodGet, gwTS.URL+"/receipts/"+receipt.ID, nil, auth)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("get receipt status=%d body=%s", resp.StatusCode, string(raw))
		}
	}
}

func TestGateway_PublicAPI_CartRequiresSession(t *testing.T) {
	gwTS := startStack(t)
	c := &http.Client{}

	resp, raw := doJSON(t, c, http.MethodPost, gwTS.URL+"/cart/items", map[string]any{
		"product":    map[string]any{"codigo": 1, "descricao": "x"},
		"unit_price": "1",
		"quantity":   1,
	}, nil)

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestGateway_UpstreamDown(t *testing.T) {
	catalogTS := newCatalogTS(t)
	t.Cleanup(catalogTS.Close)

	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	gwTS := newGatewayTS(t, deadURL, catalogTS.URL)
	t.Cleanup(gwTS.Close)
	c := &http.Client{}

	resp, raw := doJSON(t, c, http.MethodPost, gwTS.URL+"/sessions", map[string]any{"customer_id": "x"}, nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("sessions status=%d body=%s", resp.StatusCode, string(raw))
	}

	resp, raw = doJSON(t, c, http.MethodGet, gwTS.URL+"/readyz", nil, nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d body=%s", resp.StatusCode, string(raw))
	}
}

func TestGateway_RejectsRelativeUpstream(t *testing.T) {
	_, err := gateway.NewHandler(gateway.Deps{CartURL: "cart:8083", CatalogURL: "http://catalog"}, gateway.HTTPDeps{})
	if err == nil {
		t.Fatalf("expected error for relative upstream")
	}
}
