package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/swiftlogi/marketplace/internal/apiclient"
	"github.com/swiftlogi/marketplace/internal/product"
	"github.com/swiftlogi/marketplace/internal/session"
)

// fakeBackend serves just enough of the API to drive the dispatcher and
// records which endpoints were hit.
type fakeBackend struct {
	mu           sync.Mutex
	hits         map[string]int
	failCheckout bool
	// when set, GET /api/products blocks until the channel closes
	productGate chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{hits: make(map[string]int)}
}

func (f *fakeBackend) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	gate := f.productGate
	fail := f.failCheckout
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/login":
		body, _ := io.ReadAll(r.Body)
		role := "buyer"
		if strings.Contains(string(body), "rider@") {
			role = "rider"
		}
		if strings.Contains(string(body), "wrong") {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok",
			"user":  map[string]interface{}{"id": 7, "name": "Test", "email": "t@example.com", "role": role},
		})
	case r.URL.Path == "/api/products":
		if gate != nil {
			<-gate
		}
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "Crate", "price": 1500.0},
			{"id": 2, "name": "Pallet", "price": 2500.0},
		})
	case strings.HasPrefix(r.URL.Path, "/api/user/orders/"):
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 10, "buyerId": 7, "status": "placed", "totalPrice": 5500.0,
				"items": []map[string]interface{}{{"productId": 1, "name": "Crate", "price": 1500.0, "quantity": 2}}},
		})
	case r.URL.Path == "/api/jobs":
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"orderId": 10, "productName": "Crate", "payout": 2500.0, "status": "placed"},
		})
	case r.URL.Path == "/api/orders":
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "total does not match cart contents"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order": map[string]interface{}{"id": 11, "buyerId": 7, "status": "placed", "totalPrice": 5500.0},
		})
	case strings.HasSuffix(r.URL.Path, "/accept"), strings.HasSuffix(r.URL.Path, "/deliver"):
		json.NewEncoder(w).Encode(map[string]interface{}{"orderId": 10, "status": "shipped"})
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}
}

func newDispatcher(t *testing.T, backend *fakeBackend) (*Dispatcher, *session.MemoryStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore()
	d := New(apiclient.New(srv.URL+"/api"), store, log.New(io.Discard, "", 0))
	return d, store, srv
}

func TestLogin_BuyerFetchesProductsAndOrdersOnly(t *testing.T) {
	backend := newFakeBackend()
	d, store, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if d.State() != BuyerView {
		t.Fatalf("expected buyer view, got %v", d.State())
	}
	if len(d.Products()) != 2 {
		t.Errorf("expected 2 products, got %d", len(d.Products()))
	}
	if len(d.Orders()) != 1 {
		t.Errorf("expected 1 order, got %d", len(d.Orders()))
	}
	if backend.count("/api/jobs") != 0 {
		t.Error("a buyer login must not fetch jobs")
	}

	// the session was persisted only after the server confirmed
	if _, ok, _ := store.Load(); !ok {
		t.Error("expected a saved session")
	}
}

func TestLogin_RiderFetchesJobsOnly(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "rider@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	if d.State() != RiderView {
		t.Fatalf("expected rider view, got %v", d.State())
	}
	if len(d.Jobs()) != 1 {
		t.Errorf("expected 1 job, got %d", len(d.Jobs()))
	}
	if backend.count("/api/products") != 0 {
		t.Error("a rider login must not fetch products")
	}
	if backend.count("/api/jobs") != 1 {
		t.Errorf("expected one jobs fetch, got %d", backend.count("/api/jobs"))
	}
}

func TestLogin_FailureStaysUnauthenticated(t *testing.T) {
	backend := newFakeBackend()
	d, store, _ := newDispatcher(t, backend)

	err := d.Login(context.Background(), "wrong@example.com", "bad")
	if err == nil {
		t.Fatal("expected an error")
	}
	if d.State() != Unauthenticated {
		t.Errorf("expected unauthenticated, got %v", d.State())
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("a failed login must not persist a session")
	}
}

func TestStart_HydratesPersistedSession(t *testing.T) {
	backend := newFakeBackend()
	d, store, srv := newDispatcher(t, backend)

	store.Save(session.Session{UserID: 7, Name: "Test", Role: "rider", Token: "tok"})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.State() != RiderView {
		t.Fatalf("expected rider view after hydration, got %v", d.State())
	}

	// a second dispatcher over an empty store stays logged out
	d2 := New(apiclient.New(srv.URL+"/api"), session.NewMemoryStore(), log.New(io.Discard, "", 0))
	if err := d2.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d2.State() != Unauthenticated {
		t.Errorf("expected unauthenticated with no stored session, got %v", d2.State())
	}
}

func TestCheckout_ClearsCartOnlyOnSuccess(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}

	crate := product.Product{ID: 1, Name: "Crate", Price: 1500}
	pallet := product.Product{ID: 2, Name: "Pallet", Price: 2500}
	d.AddToCart(crate)
	d.AddToCart(crate)
	d.AddToCart(pallet)

	if d.CartTotal() != 5500 {
		t.Fatalf("expected cart total 5500, got %v", d.CartTotal())
	}

	// server rejects: the cart must survive
	backend.mu.Lock()
	backend.failCheckout = true
	backend.mu.Unlock()

	if _, err := d.Checkout(context.Background()); err == nil {
		t.Fatal("expected checkout to fail")
	}
	if d.CartItemCount() != 3 {
		t.Errorf("cart must be retained after a failed checkout, have %d items", d.CartItemCount())
	}

	// server accepts: now the cart clears
	backend.mu.Lock()
	backend.failCheckout = false
	backend.mu.Unlock()

	placed, err := d.Checkout(context.Background())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if placed.ID != 11 {
		t.Errorf("expected order 11, got %d", placed.ID)
	}
	if d.CartItemCount() != 0 {
		t.Errorf("cart must be empty after a confirmed checkout, have %d items", d.CartItemCount())
	}
	if d.SubView() != SubViewHistory {
		t.Error("expected the history sub-view after checkout")
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Checkout(context.Background()); err != ErrEmptyCart {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
	if backend.count("/api/orders") != 0 {
		t.Error("an empty cart must not reach the server")
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	backend := newFakeBackend()
	d, store, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	d.AddToCart(product.Product{ID: 1, Price: 100})

	if err := d.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if d.State() != Unauthenticated {
		t.Errorf("expected unauthenticated, got %v", d.State())
	}
	if d.CartItemCount() != 0 {
		t.Error("expected an empty cart after logout")
	}
	if len(d.Products()) != 0 || len(d.Orders()) != 0 || len(d.Jobs()) != 0 {
		t.Error("expected empty collections after logout")
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("expected the persisted session to be cleared")
	}
}

func TestAddToCart_WrongRole(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.AddToCart(product.Product{ID: 1}); err != ErrWrongRole {
		t.Errorf("expected ErrWrongRole when logged out, got %v", err)
	}

	if err := d.Login(context.Background(), "rider@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := d.AddToCart(product.Product{ID: 1}); err != ErrWrongRole {
		t.Errorf("expected ErrWrongRole for a rider, got %v", err)
	}
}

func TestRiderAcceptRefetchesJobs(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "rider@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	jobsBefore := backend.count("/api/jobs")

	if err := d.AcceptJob(context.Background(), 10); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if backend.count("/api/jobs") != jobsBefore+1 {
		t.Error("accepting a job must refetch the feed")
	}

	// a buyer never gets to accept
	d2, _, _ := newDispatcher(t, newFakeBackend())
	if err := d2.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	if err := d2.AcceptJob(context.Background(), 10); err != ErrWrongRole {
		t.Errorf("expected ErrWrongRole for a buyer, got %v", err)
	}
}

func TestSubViewToggle_Refetches(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
	ordersBefore := backend.count("/api/user/orders/7")

	if err := d.ShowHistory(context.Background()); err != nil {
		t.Fatalf("show history: %v", err)
	}
	if d.SubView() != SubViewHistory {
		t.Error("expected history sub-view")
	}
	if backend.count("/api/user/orders/7") != ordersBefore+1 {
		t.Error("toggling to history must refetch orders")
	}

	productsBefore := backend.count("/api/products")
	if err := d.ShowMarketplace(context.Background()); err != nil {
		t.Fatalf("show marketplace: %v", err)
	}
	if backend.count("/api/products") != productsBefore+1 {
		t.Error("toggling to marketplace must refetch products")
	}
}

func TestStaleFetchDoesNotClobberNewerState(t *testing.T) {
	backend := newFakeBackend()
	d, _, _ := newDispatcher(t, backend)

	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatal(err)
	}

	// hold the next products fetch open
	gate := make(chan struct{})
	backend.mu.Lock()
	backend.productGate = gate
	backend.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.ShowMarketplace(context.Background())
		close(done)
	}()

	// wait until the fetch is in flight, then log out underneath it
	deadline := time.After(2 * time.Second)
	for backend.count("/api/products") < 2 {
		select {
		case <-deadline:
			t.Fatal("products fetch never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if err := d.Logout(); err != nil {
		t.Fatal(err)
	}

	close(gate)
	<-done

	if got := len(d.Products()); got != 0 {
		t.Errorf("stale fetch overwrote state after logout: %d products", got)
	}
	if d.State() != Unauthenticated {
		t.Errorf("expected unauthenticated, got %v", d.State())
	}
}

func TestFetchFailureLeavesCollectionEmpty(t *testing.T) {
	// orders endpoint missing entirely: login must still reach the buyer
	// view with an empty history
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "tok",
				"user":  map[string]interface{}{"id": 7, "name": "Test", "role": "buyer"},
			})
		case "/api/products":
			json.NewEncoder(w).Encode([]map[string]interface{}{{"id": 1, "name": "Crate", "price": 10.0}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
		}
	}))
	defer srv.Close()

	d := New(apiclient.New(srv.URL+"/api"), session.NewMemoryStore(), log.New(io.Discard, "", 0))
	if err := d.Login(context.Background(), "buyer@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if d.State() != BuyerView {
		t.Fatalf("expected buyer view despite the failed fetch, got %v", d.State())
	}
	if len(d.Products()) != 1 {
		t.Errorf("expected the healthy fetch to land, got %d products", len(d.Products()))
	}
	if len(d.Orders()) != 0 {
		t.Errorf("expected an empty orders collection, got %d", len(d.Orders()))
	}
}
