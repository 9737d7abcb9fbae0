// Terminal client for the marketplace API. It drives the same dispatcher the
// UI would: login persists a session under the state dir, later invocations
// hydrate from it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/swiftlogi/marketplace/internal/apiclient"
	"github.com/swiftlogi/marketplace/internal/config"
	"github.com/swiftlogi/marketplace/internal/dispatch"
	"github.com/swiftlogi/marketplace/internal/session"
	"github.com/swiftlogi/marketplace/internal/user"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	api := apiclient.New(cfg.APIURL)
	store := session.NewFileStore(cfg.StateDir)
	d := dispatch.New(api, store, log.New(os.Stderr, "", 0))

	ctx := context.Background()
	if err := run(ctx, d, args); err != nil {
		if errors.Is(err, apiclient.ErrConnection) {
			log.Fatalf("connection error: is the server reachable at %s?", cfg.APIURL)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, d *dispatch.Dispatcher, args []string) error {
	cmd, rest := args[0], args[1:]

	// register and login work without an existing session
	switch cmd {
	case "register":
		if len(rest) != 4 {
			return fmt.Errorf("usage: register <name> <email> <password> <role>")
		}
		role, ok := user.ParseRole(rest[3])
		if !ok {
			return fmt.Errorf("unknown role %q", rest[3])
		}
		created, err := d.Register(ctx, rest[0], rest[1], rest[2], role)
		if err != nil {
			return err
		}
		fmt.Printf("account ready: %s (%s), please login\n", created.Email, created.Role)
		return nil
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		if err := d.Login(ctx, rest[0], rest[1]); err != nil {
			return err
		}
		sess := d.Session()
		fmt.Printf("logged in as %s (%s)\n", sess.Name, sess.Role)
		return nil
	}

	if err := d.Start(ctx); err != nil {
		return err
	}
	if d.State() == dispatch.Unauthenticated {
		return fmt.Errorf("no session, login first")
	}

	switch cmd {
	case "logout":
		return d.Logout()
	case "products":
		for _, p := range d.Products() {
			fmt.Printf("#%d  %-30s %10.0f  %s (%s)\n", p.ID, p.Name, p.Price, p.SellerName, p.Location)
		}
		return nil
	case "orders":
		if err := d.ShowHistory(ctx); err != nil {
			return err
		}
		for _, o := range d.Orders() {
			fmt.Printf("order #%d  %-10s total %.0f (%d items)\n", o.ID, o.Status, o.TotalPrice, len(o.Items))
		}
		return nil
	case "jobs":
		for _, j := range d.Jobs() {
			fmt.Printf("job #%d  %-10s %-30s payout %.0f\n", j.OrderID, j.Status, j.ProductName, j.Payout)
		}
		return nil
	case "buy":
		if len(rest) == 0 {
			return fmt.Errorf("usage: buy <productId> [productId ...]")
		}
		products := d.Products()
		for _, raw := range rest {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("invalid product id %q", raw)
			}
			found := false
			for _, p := range products {
				if p.ID == id {
					if err := d.AddToCart(p); err != nil {
						return err
					}
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("product %d not found", id)
			}
		}
		fmt.Printf("cart: %d items, total %.0f\n", d.CartItemCount(), d.CartTotal())
		placed, err := d.Checkout(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("order placed: #%d total %.0f\n", placed.ID, placed.TotalPrice)
		return nil
	case "accept":
		if len(rest) != 1 {
			return fmt.Errorf("usage: accept <orderId>")
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid order id %q", rest[0])
		}
		return d.AcceptJob(ctx, id)
	case "deliver":
		if len(rest) != 1 {
			return fmt.Errorf("usage: deliver <orderId>")
		}
		id, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid order id %q", rest[0])
		}
		return d.DeliverJob(ctx, id)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: client <command> [args]

commands:
  register <name> <email> <password> <role>
  login <email> <password>
  logout
  products
  orders
  jobs
  buy <productId> [productId ...]
  accept <orderId>
  deliver <orderId>
`)
}
