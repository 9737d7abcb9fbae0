// Package dispatch owns the client's view state machine. It routes on the
// session's role exactly once: every other component just renders whatever
// collections the dispatcher holds.
package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/swiftlogi/marketplace/internal/apiclient"
	"github.com/swiftlogi/marketplace/internal/cart"
	"github.com/swiftlogi/marketplace/internal/job"
	"github.com/swiftlogi/marketplace/internal/order"
	"github.com/swiftlogi/marketplace/internal/product"
	"github.com/swiftlogi/marketplace/internal/session"
	"github.com/swiftlogi/marketplace/internal/user"
)

// State is the dispatcher's current screen.
type State int

const (
	Unauthenticated State = iota
	Loading
	BuyerView
	SellerView
	RiderView
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Loading:
		return "loading"
	case BuyerView:
		return "buyer"
	case SellerView:
		return "seller"
	case RiderView:
		return "rider"
	}
	return "unknown"
}

// SubView toggles between browsing the marketplace and the personal order
// history inside an authenticated state.
type SubView int

const (
	SubViewMarketplace SubView = iota
	SubViewHistory
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrWrongRole        = errors.New("action not available for this role")
)

// Dispatcher drives the session lifecycle and keeps the per-role collections.
// All exported methods are safe for concurrent use.
type Dispatcher struct {
	api    *apiclient.Client
	store  session.Store
	logger *log.Logger

	mu       sync.Mutex
	state    State
	subView  SubView
	sess     session.Session
	cart     *cart.Cart
	products []product.Product
	orders   []order.Order
	jobs     []job.Job
	// gen stamps every fetch; a response whose stamp is stale is dropped so
	// it can never clobber newer data
	gen uint64
}

func New(api *apiclient.Client, store session.Store, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		api:      api,
		store:    store,
		logger:   logger,
		state:    Unauthenticated,
		cart:     cart.New(),
		products: []product.Product{},
		orders:   []order.Order{},
		jobs:     []job.Job{},
	}
}

// Start hydrates the session from the store. With no usable persisted state
// the dispatcher stays unauthenticated.
func (d *Dispatcher) Start(ctx context.Context) error {
	sess, ok, err := d.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	d.enter(sess)
	return d.refresh(ctx)
}

// Login authenticates, persists the session and loads the role's
// collections. The session is saved only after the server confirms.
func (d *Dispatcher) Login(ctx context.Context, email, password string) error {
	sess, err := d.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := d.store.Save(sess); err != nil {
		return err
	}
	d.enter(sess)
	return d.refresh(ctx)
}

// Register creates an account. It does not establish a session; the user
// logs in afterwards, matching the two-step flow of the registration screen.
func (d *Dispatcher) Register(ctx context.Context, name, email, password string, role user.Role) (user.User, error) {
	return d.api.Register(ctx, apiclient.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
	})
}

// Logout clears the persisted session, the cart and every collection.
func (d *Dispatcher) Logout() error {
	d.mu.Lock()
	d.gen++
	d.state = Unauthenticated
	d.subView = SubViewMarketplace
	d.sess = session.Session{}
	d.cart.Clear()
	d.products = []product.Product{}
	d.orders = []order.Order{}
	d.jobs = []job.Job{}
	d.mu.Unlock()

	d.api.SetToken("")
	return d.store.Clear()
}

func (d *Dispatcher) enter(sess session.Session) {
	d.mu.Lock()
	d.sess = sess
	d.state = Loading
	d.subView = SubViewMarketplace
	d.mu.Unlock()
	d.api.SetToken(sess.Token)
}

// refresh fetches the collections for the session's role in parallel. A
// failed fetch is logged and leaves its collection empty rather than
// blocking the view.
func (d *Dispatcher) refresh(ctx context.Context) error {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	sess := d.sess
	d.mu.Unlock()

	var g errgroup.Group
	target := viewFor(sess.Role)

	if target == RiderView {
		g.Go(func() error {
			jobs, err := d.api.ListJobs(ctx)
			if err != nil {
				jobs = []job.Job{}
			}
			d.applyJobs(gen, jobs)
			return err
		})
	} else {
		g.Go(func() error {
			products, err := d.api.ListProducts(ctx)
			if err != nil {
				products = []product.Product{}
			}
			d.applyProducts(gen, products)
			return err
		})
		g.Go(func() error {
			orders, err := d.api.ListOrders(ctx, sess.UserID)
			if err != nil {
				orders = []order.Order{}
			}
			d.applyOrders(gen, orders)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		d.logger.Printf("dispatch: fetch failed: %v", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen || d.state == Unauthenticated {
		return nil
	}
	d.state = target
	return nil
}

// viewFor is the single place role strings decide anything.
func viewFor(role user.Role) State {
	switch role {
	case user.RoleRider:
		return RiderView
	case user.RoleSeller:
		return SellerView
	case user.RoleBuyer, user.RoleAdmin:
		return BuyerView
	}
	return BuyerView
}

func (d *Dispatcher) applyProducts(gen uint64, products []product.Product) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		return
	}
	d.products = products
}

func (d *Dispatcher) applyOrders(gen uint64, orders []order.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		return
	}
	d.orders = orders
}

func (d *Dispatcher) applyJobs(gen uint64, jobs []job.Job) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen {
		return
	}
	d.jobs = jobs
}

// ShowMarketplace switches to the browse sub-view and refetches products.
func (d *Dispatcher) ShowMarketplace(ctx context.Context) error {
	d.mu.Lock()
	if d.state != BuyerView && d.state != SellerView {
		d.mu.Unlock()
		return ErrWrongRole
	}
	d.subView = SubViewMarketplace
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	products, err := d.api.ListProducts(ctx)
	if err != nil {
		d.logger.Printf("dispatch: product fetch failed: %v", err)
		products = []product.Product{}
	}
	d.applyProducts(gen, products)
	return nil
}

// ShowHistory switches to the order-history sub-view and refetches orders.
func (d *Dispatcher) ShowHistory(ctx context.Context) error {
	d.mu.Lock()
	if d.state != BuyerView && d.state != SellerView {
		d.mu.Unlock()
		return ErrWrongRole
	}
	d.subView = SubViewHistory
	d.gen++
	gen := d.gen
	userID := d.sess.UserID
	d.mu.Unlock()

	orders, err := d.api.ListOrders(ctx, userID)
	if err != nil {
		d.logger.Printf("dispatch: order fetch failed: %v", err)
		orders = []order.Order{}
	}
	d.applyOrders(gen, orders)
	return nil
}

// AddToCart merges a product into the session cart.
func (d *Dispatcher) AddToCart(p product.Product) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != BuyerView && d.state != SellerView {
		return ErrWrongRole
	}
	d.cart.Add(p)
	return nil
}

// Checkout submits the cart as an order. The cart is cleared only after the
// server acknowledges; any failure leaves it intact for a retry.
func (d *Dispatcher) Checkout(ctx context.Context) (order.Order, error) {
	d.mu.Lock()
	if d.state == Unauthenticated {
		d.mu.Unlock()
		return order.Order{}, ErrNotAuthenticated
	}
	if d.state != BuyerView && d.state != SellerView {
		d.mu.Unlock()
		return order.Order{}, ErrWrongRole
	}
	if d.cart.Empty() {
		d.mu.Unlock()
		return order.Order{}, ErrEmptyCart
	}
	buyerID := d.sess.UserID
	lines := d.cart.Lines()
	total := d.cart.Total()
	d.mu.Unlock()

	items := make([]order.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, order.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}

	placed, err := d.api.CreateOrder(ctx, buyerID, items, total)
	if err != nil {
		return order.Order{}, err
	}

	d.mu.Lock()
	d.cart.Clear()
	d.mu.Unlock()

	if err := d.ShowHistory(ctx); err != nil && err != ErrWrongRole {
		d.logger.Printf("dispatch: post-checkout refresh failed: %v", err)
	}
	return placed, nil
}

// AcceptJob marks a job as picked up and refreshes the feed.
func (d *Dispatcher) AcceptJob(ctx context.Context, orderID int) error {
	return d.jobAction(ctx, func() error {
		_, err := d.api.AcceptJob(ctx, orderID)
		return err
	})
}

// DeliverJob marks a job as delivered and refreshes the feed.
func (d *Dispatcher) DeliverJob(ctx context.Context, orderID int) error {
	return d.jobAction(ctx, func() error {
		_, err := d.api.DeliverJob(ctx, orderID)
		return err
	})
}

func (d *Dispatcher) jobAction(ctx context.Context, apply func() error) error {
	d.mu.Lock()
	if d.state != RiderView {
		d.mu.Unlock()
		return ErrWrongRole
	}
	d.mu.Unlock()

	if err := apply(); err != nil {
		return err
	}

	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	jobs, err := d.api.ListJobs(ctx)
	if err != nil {
		d.logger.Printf("dispatch: job fetch failed: %v", err)
		jobs = []job.Job{}
	}
	d.applyJobs(gen, jobs)
	return nil
}

func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dispatcher) SubView() SubView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.subView
}

func (d *Dispatcher) Session() session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sess
}

func (d *Dispatcher) Products() []product.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]product.Product, len(d.products))
	copy(out, d.products)
	return out
}

func (d *Dispatcher) Orders() []order.Order {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]order.Order, len(d.orders))
	copy(out, d.orders)
	return out
}

func (d *Dispatcher) Jobs() []job.Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]job.Job, len(d.jobs))
	copy(out, d.jobs)
	return out
}

func (d *Dispatcher) CartLines() []cart.Line {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cart.Lines()
}

func (d *Dispatcher) CartTotal() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cart.Total()
}

func (d *Dispatcher) CartItemCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cart.ItemCount()
}
