package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"partsmarket/internal/checkout"
	"partsmarket/internal/client"
	"partsmarket/internal/config"
	"partsmarket/internal/dto"
	"partsmarket/internal/model"
	"partsmarket/internal/pricing"
	"partsmarket/internal/session"
	"partsmarket/internal/store"
)

// app is the storefront's view layer: it reads snapshots from the
// stores and dispatches intents, never touching store state directly.
type app struct {
	api      client.MarketClient
	sess     *session.Session
	auth     *store.AuthStore
	products *store.ProductsStore
	cart     *store.CartStore
	orders   *store.OrdersStore
	flow     *checkout.Flow
	vipCode  string
	out      *tabwriter.Writer
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.Open(cfg.Session.DBPath)
	if err != nil {
		fmt.Printf("Failed to open session: %v\n", err)
		os.Exit(1)
	}

	api := client.NewMarketClient(&cfg.API, sess)
	authStore := store.NewAuthStore(api, sess)
	productsStore := store.NewProductsStore(api)
	cartStore := store.NewCartStore(api)
	ordersStore := store.NewOrdersStore(api)

	a := &app{
		api:      api,
		sess:     sess,
		auth:     authStore,
		products: productsStore,
		cart:     cartStore,
		orders:   ordersStore,
		flow:     checkout.NewFlow(productsStore, cartStore, ordersStore),
		vipCode:  cfg.VIPCode,
		out:      tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0),
	}

	if u := sess.User(); u != nil {
		fmt.Printf("Welcome back, %s (%s)\n", u.Name, u.UserType)
	}
	fmt.Println(`partsmarket storefront - type "help" for commands`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "quit" || args[0] == "exit" {
			return
		}
		a.run(context.Background(), args[0], args[1:])
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) {
	var err error
	switch cmd {
	case "help":
		a.help()
	case "register":
		err = a.register(ctx, args)
	case "login":
		err = a.login(ctx, args, false)
	case "admin-login":
		err = a.login(ctx, args, true)
	case "logout":
		err = a.auth.Logout()
		if err == nil {
			a.cart.Reset()
			a.orders.Reset()
			fmt.Println("signed out")
		}
	case "whoami":
		a.whoami()
	case "products":
		<-a.products.FetchAll(ctx)
		a.renderProducts()
	case "product":
		err = a.productDetail(ctx, args)
	case "cart":
		<-a.cart.Fetch(ctx)
		a.renderCart()
	case "add":
		err = a.cartEdit(ctx, args, a.cart.Add)
	case "qty":
		err = a.cartEdit(ctx, args, a.cart.UpdateItem)
	case "remove":
		if len(args) != 1 {
			err = fmt.Errorf("usage: remove <product-id>")
			break
		}
		<-a.cart.RemoveItem(ctx, args[0])
		a.renderCart()
	case "checkout":
		err = a.checkout(ctx, args)
	case "orders":
		<-a.orders.FetchAll(ctx)
		a.renderOrders()
	case "admin":
		err = a.admin(ctx, args)
	default:
		fmt.Printf("unknown command %q, try \"help\"\n", cmd)
	}
	if err != nil {
		fmt.Println("error:", err)
	}
}

func (a *app) help() {
	fmt.Print(`commands:
  register <name> <email> <password>
  login <email> <password>        admin-login <email> <password>
  logout                          whoami
  products                        product <id>
  cart                            add <product-id> <qty>
  qty <product-id> <qty>          remove <product-id>
  checkout <address...>           orders
  admin <users|vip|orders|set-status|analytics|profit|add-product|set-stock|delete-product>
  quit
`)
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <name> <email> <password>")
	}
	<-a.auth.Register(ctx, &dto.RegisterRequest{Name: args[0], Email: args[1], Password: args[2]})
	return a.afterAuth()
}

func (a *app) login(ctx context.Context, args []string, admin bool) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	creds := &dto.Credentials{Email: args[0], Password: args[1]}
	if admin {
		<-a.auth.AdminLogin(ctx, creds)
	} else {
		<-a.auth.Login(ctx, creds)
	}
	return a.afterAuth()
}

func (a *app) afterAuth() error {
	view := a.auth.User()
	if view.Status == store.Failed {
		return fmt.Errorf("%s", view.Err)
	}
	if view.Data != nil {
		fmt.Printf("signed in as %s (%s)\n", view.Data.Name, view.Data.UserType)
	}
	return nil
}

func (a *app) whoami() {
	u := a.sess.User()
	if u == nil {
		fmt.Println("browsing anonymously")
		return
	}
	fmt.Printf("%s <%s> tier=%s\n", u.Name, u.Email, u.UserType)
}

func (a *app) renderProducts() {
	view := a.products.List()
	if view.Status == store.Failed {
		fmt.Println("error:", view.Err)
		if len(view.Data) == 0 {
			return
		}
		fmt.Println("showing last known catalog:")
	}
	fmt.Fprintln(a.out, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range view.Data {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2), p.StockQuantity)
	}
	a.out.Flush()
}

func (a *app) productDetail(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: product <id>")
	}
	<-a.products.FetchByID(ctx, args[0])
	view := a.products.Current()
	if view.Status == store.Failed {
		return fmt.Errorf("%s", view.Err)
	}
	p := view.Data
	if p == nil {
		return nil
	}
	fmt.Printf("%s - %s (%s)\n%s\nprice: %s  stock: %d\n", p.ID, p.Name, p.Category, p.Description, p.Price.StringFixed(2), p.StockQuantity)
	return nil
}

func (a *app) cartEdit(ctx context.Context, args []string, op func(context.Context, string, int) <-chan struct{}) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: <product-id> <qty>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number")
	}
	<-op(ctx, args[0], qty)
	a.renderCart()
	return nil
}

func (a *app) renderCart() {
	view := a.cart.Cart()
	if view.Status == store.Failed {
		fmt.Println("error:", view.Err)
		if view.Data == nil {
			return
		}
		fmt.Println("showing last known cart:")
	}
	if view.Data == nil || len(view.Data.Products) == 0 {
		fmt.Println("your cart is empty")
		return
	}

	tier := a.sess.Tier()
	total, lines := pricing.Total(tier, view.Data.Products)
	fmt.Fprintln(a.out, "PRODUCT\tQTY\tUNIT\tEXT")
	for _, line := range lines {
		name := "(unavailable)"
		if line.Item.Product != nil {
			name = line.Item.Product.Name
		}
		fmt.Fprintf(a.out, "%s\t%d\t%s\t%s\n", name, line.Item.Quantity, line.UnitPrice.StringFixed(2), line.Extension.StringFixed(2))
	}
	a.out.Flush()
	fmt.Printf("total: %s\n", total.StringFixed(2))
}

func (a *app) checkout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: checkout <shipping address...>")
	}
	address := strings.Join(args, " ")

	<-a.cart.Fetch(ctx)
	state := <-a.flow.Submit(ctx, address, model.PaymentCashOnDelivery)
	switch state {
	case checkout.Blocked:
		_, msg := a.flow.State()
		fmt.Println("checkout blocked:", msg)
		a.flow.Reset()
	case checkout.Editing:
		_, msg := a.flow.State()
		fmt.Println("order failed:", msg)
	case checkout.Redirected:
		fmt.Println("order placed")
		a.flow.Reset()
		<-a.orders.FetchAll(ctx)
		a.renderOrders()
	}
	return nil
}

func (a *app) renderOrders() {
	view := a.orders.Orders()
	if view.Status == store.Failed {
		fmt.Println("error:", view.Err)
		if len(view.Data) == 0 {
			return
		}
		fmt.Println("showing last known orders:")
	}
	if len(view.Data) == 0 {
		fmt.Println("no orders yet")
		return
	}
	fmt.Fprintln(a.out, "ID\tSTATUS\tTOTAL\tPLACED")
	for _, o := range view.Data {
		fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", o.ID, o.Status, o.TotalPrice.StringFixed(2), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	a.out.Flush()
}

// admin talks to the API directly rather than through the stores; the
// console re-fetches after each mutation the way the dashboard does.
func (a *app) admin(ctx context.Context, args []string) error {
	if a.sess.Tier() != model.TierAdmin {
		// tier mismatch redirects to login rather than erroring
		fmt.Println("redirecting to login: admin access required")
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: admin <users|vip|orders|set-status|analytics|profit|add-product|set-stock|delete-product>")
	}

	switch args[0] {
	case "users":
		users, err := a.api.ListUsers(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "ID\tNAME\tEMAIL\tTIER")
		for _, u := range users {
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.UserType)
		}
		a.out.Flush()
	case "vip":
		if len(args) != 2 {
			return fmt.Errorf("usage: admin vip <user-id>")
		}
		user, err := a.api.PromoteVIP(ctx, args[1], a.vipCode)
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", user.Name, user.UserType)
	case "orders":
		<-a.orders.FetchAll(ctx)
		a.renderOrders()
	case "set-status":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin set-status <order-id> <status>")
		}
		order, err := a.api.UpdateOrderStatus(ctx, args[1], model.OrderStatus(args[2]))
		if err != nil {
			return err
		}
		fmt.Printf("order %s -> %s\n", order.ID, order.Status)
	case "analytics":
		summary, err := a.api.AnalyticsSummary(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("orders: %d  sales: %s\n", summary.OrdersCount, summary.TotalSales.StringFixed(2))
		for _, status := range model.OrderStatuses {
			fmt.Printf("  %s: %d\n", status, summary.ByStatus[status])
		}
	case "add-product":
		if len(args) != 7 {
			return fmt.Errorf("usage: admin add-product <name> <category> <stock> <admin-price> <vip-price> <customer-price>")
		}
		stock, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("stock must be a number")
		}
		prc := &model.Pricing{}
		for i, dst := range []*decimal.Decimal{&prc.AdminPrice, &prc.VIPCustomerPrice, &prc.CustomerPrice} {
			d, err := decimal.NewFromString(args[4+i])
			if err != nil {
				return fmt.Errorf("bad price %q", args[4+i])
			}
			*dst = d
		}
		product, err := a.api.CreateProduct(ctx, &dto.ProductPayload{
			Name:          args[1],
			Category:      args[2],
			StockQuantity: stock,
			Pricing:       prc,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created %s (%s)\n", product.Name, product.ID)
	case "set-stock":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin set-stock <product-id> <stock>")
		}
		stock, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("stock must be a number")
		}
		current, err := a.api.GetProduct(ctx, args[1])
		if err != nil {
			return err
		}
		updated, err := a.api.UpdateProduct(ctx, current.ID, &dto.ProductPayload{
			Name:          current.Name,
			Category:      current.Category,
			Description:   current.Description,
			Images:        current.Images,
			StockQuantity: stock,
			Pricing:       current.Pricing,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s stock -> %d\n", updated.Name, updated.StockQuantity)
	case "profit":
		products, err := a.api.ListProducts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("potential profit if all stock sells: %s\n", pricing.PotentialProfit(products).StringFixed(2))
	case "delete-product":
		if len(args) != 2 {
			return fmt.Errorf("usage: admin delete-product <product-id>")
		}
		if err := a.api.DeleteProduct(ctx, args[1]); err != nil {
			return err
		}
		fmt.Println("deleted")
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
	return nil
}
