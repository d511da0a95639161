package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/n0l0g0/pos-frontend/internal/api"
	"github.com/n0l0g0/pos-frontend/internal/auditlog"
	"github.com/n0l0g0/pos-frontend/internal/catalog"
	"github.com/n0l0g0/pos-frontend/internal/employees"
	"github.com/n0l0g0/pos-frontend/internal/inventory"
	"github.com/n0l0g0/pos-frontend/internal/printer"
	"github.com/n0l0g0/pos-frontend/internal/register"
	"github.com/n0l0g0/pos-frontend/internal/reports"
	"github.com/n0l0g0/pos-frontend/internal/session"
	"github.com/n0l0g0/pos-frontend/pkg/config"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
	"github.com/n0l0g0/pos-frontend/pkg/logger"
	"github.com/n0l0g0/pos-frontend/pkg/pagination"
)

// TerminalParams carries everything the interactive terminal needs.
type TerminalParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Client      *api.Client
	State       *session.State
	Manager     *session.Manager
	Catalog     *catalog.Cache
	Cart        *register.Cart
	Coordinator *register.Coordinator
	Renderer    *register.Renderer
	Printer     printer.Sink
	Inventory   *inventory.Service
	Employees   *employees.Service
	Exporter    *reports.Exporter
	In          io.Reader
	Out         io.Writer
}

// Terminal drives the cashier-facing menu loop over stdin/stdout.
type Terminal struct {
	cfg         *config.Config
	logg        *logger.Logger
	client      *api.Client
	state       *session.State
	manager     *session.Manager
	catalog     *catalog.Cache
	cart        *register.Cart
	coordinator *register.Coordinator
	renderer    *register.Renderer
	printer     printer.Sink
	inventory   *inventory.Service
	employees   *employees.Service
	exporter    *reports.Exporter

	in  *bufio.Scanner
	out io.Writer
}

func NewTerminal(params TerminalParams) *Terminal {
	return &Terminal{
		cfg:         params.Config,
		logg:        params.Logger,
		client:      params.Client,
		state:       params.State,
		manager:     params.Manager,
		catalog:     params.Catalog,
		cart:        params.Cart,
		coordinator: params.Coordinator,
		renderer:    params.Renderer,
		printer:     params.Printer,
		inventory:   params.Inventory,
		employees:   params.Employees,
		exporter:    params.Exporter,
		in:          bufio.NewScanner(params.In),
		out:         params.Out,
	}
}

// Run loops between the login screen and the main menu until the cashier
// quits or stdin closes.
func (t *Terminal) Run(ctx context.Context) error {
	if restored, err := t.manager.Restore(ctx, t.client); err != nil {
		t.logg.Warn(ctx, "could not restore previous session")
	} else if restored {
		fmt.Fprintf(t.out, "Welcome back, %s.\n", t.state.Cashier())
	}

	for {
		if !t.state.Active() {
			ok, err := t.loginScreen(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			continue
		}
		quit, err := t.mainMenu(ctx)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (t *Terminal) loginScreen(ctx context.Context) (bool, error) {
	fmt.Fprintln(t.out, "\n=== Sign in ===")
	email, ok := t.prompt("Email (blank to quit): ")
	if !ok || email == "" {
		return false, nil
	}
	password, ok := t.prompt("Password: ")
	if !ok {
		return false, nil
	}

	user, err := t.manager.Login(ctx, t.client, email, password)
	if err != nil {
		t.showError(ctx, err)
		return true, nil
	}
	if user != nil {
		fmt.Fprintf(t.out, "Signed in as %s (%s).\n", t.state.Cashier(), user.Role)
	} else {
		fmt.Fprintf(t.out, "Signed in as %s.\n", t.state.Cashier())
	}

	if err := t.catalog.Refresh(ctx, t.client); err != nil {
		t.showError(ctx, err)
	}
	return true, nil
}

func (t *Terminal) mainMenu(ctx context.Context) (bool, error) {
	if t.manager.ExpiringWithin(5 * time.Minute) {
		fmt.Fprintln(t.out, "! Your session expires soon; finish up and sign in again.")
	}

	fmt.Fprintf(t.out, "\n=== POS [%s] ===\n", t.state.Cashier())
	fmt.Fprintln(t.out, "1) Register")
	fmt.Fprintln(t.out, "2) Inventory")
	fmt.Fprintln(t.out, "3) Employees")
	fmt.Fprintln(t.out, "4) Audit log")
	fmt.Fprintln(t.out, "5) Sales")
	fmt.Fprintln(t.out, "6) Sign out")
	fmt.Fprintln(t.out, "q) Quit")

	choice, ok := t.prompt("> ")
	if !ok {
		return true, nil
	}
	switch choice {
	case "1":
		t.registerScreen(ctx)
	case "2":
		t.inventoryScreen(ctx)
	case "3":
		t.employeesScreen(ctx)
	case "4":
		t.auditScreen(ctx)
	case "5":
		t.salesScreen(ctx)
	case "6":
		if err := t.manager.Logout(ctx); err != nil {
			t.showError(ctx, err)
		}
		t.cart.Clear()
	case "q":
		return true, nil
	}
	return false, nil
}

// registerScreen is the sale loop: search, build the cart, apply a
// discount, check out, print.
func (t *Terminal) registerScreen(ctx context.Context) {
	if err := t.catalog.Refresh(ctx, t.client); err != nil {
		t.showError(ctx, err)
	}
	var results []api.Product

	for {
		t.printCart()
		fmt.Fprintln(t.out, "Commands: find <text> | scan <sku> | add <n> | qty <n> <q> | rm <n> | disc <v>% | disc <v> | disc off | pay cash|card | back")
		line, ok := t.prompt("register> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "find":
			results = t.catalog.Search(strings.TrimSpace(strings.TrimPrefix(line, "find")))
			t.printResults(results)
		case "scan":
			if len(fields) != 2 {
				continue
			}
			product, err := t.catalog.FindBySKU(fields[1])
			if err != nil {
				t.showError(ctx, err)
				continue
			}
			t.cart.AddItem(*product)
		case "add":
			if idx, err := pickIndex(fields, len(results)); err == nil {
				t.cart.AddItem(results[idx])
			}
		case "qty":
			if len(fields) != 3 {
				continue
			}
			lines := t.cart.Lines()
			idx, err := pickIndex(fields[:2], len(lines))
			if err != nil {
				continue
			}
			qty, err := strconv.Atoi(fields[2])
			if err != nil {
				continue
			}
			t.cart.SetQty(lines[idx].ProductID, qty)
		case "rm":
			lines := t.cart.Lines()
			if idx, err := pickIndex(fields, len(lines)); err == nil {
				t.cart.RemoveItem(lines[idx].ProductID)
			}
		case "disc":
			if len(fields) != 2 {
				continue
			}
			if err := t.applyDiscount(fields[1]); err != nil {
				t.showError(ctx, err)
			}
		case "pay":
			if len(fields) != 2 || (fields[1] != "cash" && fields[1] != "card") {
				fmt.Fprintln(t.out, "Payment method must be cash or card.")
				continue
			}
			t.checkout(ctx, fields[1])
		}
	}
}

func (t *Terminal) applyDiscount(raw string) error {
	if raw == "off" {
		return t.coordinator.SetDiscount(register.NoDiscount())
	}
	kind := register.KindAbsolute
	if strings.HasSuffix(raw, "%") {
		kind = register.KindPercentage
		raw = strings.TrimSuffix(raw, "%")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be a number")
	}
	return t.coordinator.SetDiscount(register.Discount{Value: value, Kind: kind})
}

func (t *Terminal) checkout(ctx context.Context, method string) {
	sale, err := t.coordinator.Checkout(ctx, method)
	if err != nil {
		t.showError(ctx, err)
		return
	}

	ctx = t.logg.WithReceiptID(ctx, sale.ReceiptID)
	t.logg.Info(ctx, "sale recorded")
	fmt.Fprintf(t.out, "Sale recorded: %s, net ฿%s via %s.\n", sale.ReceiptID, sale.DiscountedPrice.String(), method)

	doc, err := t.renderer.Render(sale)
	if err != nil {
		t.showError(ctx, err)
		return
	}
	for {
		if err := t.printer.Print(ctx, doc); err != nil {
			t.showError(ctx, err)
			answer, ok := t.prompt("Retry printing? [y/N] ")
			if ok && strings.EqualFold(answer, "y") {
				continue
			}
		}
		break
	}

	if err := t.coordinator.Acknowledge(); err != nil {
		t.showError(ctx, err)
		return
	}
	if err := t.catalog.Refresh(ctx, t.client); err != nil {
		t.logg.Warn(ctx, "catalog refresh after sale failed")
	}
}

func (t *Terminal) printCart() {
	lines := t.cart.Lines()
	fmt.Fprintln(t.out, "\n--- Cart ---")
	if len(lines) == 0 {
		fmt.Fprintln(t.out, "(empty)")
		return
	}
	for i, line := range lines {
		fmt.Fprintf(t.out, "%2d) %s x%d @ ฿%s = ฿%s\n", i+1, line.Name, line.Qty, line.Price.String(), line.Total().String())
	}
	totals := t.cart.Totals()
	fmt.Fprintf(t.out, "Items: %d  Subtotal: ฿%s", totals.Qty, totals.Price.String())
	if d := t.coordinator.Discount(); !d.Value.IsZero() {
		fmt.Fprintf(t.out, "  Discount: %s  Net: ฿%s", d.Format(), t.coordinator.NetTotal().String())
	}
	fmt.Fprintln(t.out)
}

func (t *Terminal) printResults(results []api.Product) {
	if len(results) == 0 {
		fmt.Fprintln(t.out, "No products found.")
		return
	}
	for i, p := range results {
		fmt.Fprintf(t.out, "%2d) %-24s %-18s ฿%-8s stock %d\n", i+1, p.Name, p.SKU, p.Price.String(), p.Stock)
	}
}

func (t *Terminal) inventoryScreen(ctx context.Context) {
	if err := t.catalog.Refresh(ctx, t.client); err != nil {
		t.showError(ctx, err)
		return
	}
	for {
		fmt.Fprintln(t.out, "\n--- Inventory ---")
		fmt.Fprintln(t.out, "Commands: list | price asc|desc | low | find <text> | add | edit <n> | del <n> | back")
		line, ok := t.prompt("inventory> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		products := t.catalog.Products()
		switch fields[0] {
		case "list":
			t.printResults(products)
		case "price":
			t.printResults(inventory.SortByPrice(products, len(fields) == 2 && fields[1] == "desc"))
		case "low":
			low := inventory.LowStock(products, t.cfg.Register.LowStockThreshold)
			if len(low) == 0 {
				fmt.Fprintln(t.out, "Nothing below the restock threshold.")
				continue
			}
			t.printResults(low)
		case "find":
			t.printResults(t.catalog.Search(strings.TrimSpace(strings.TrimPrefix(line, "find"))))
		case "add":
			t.editProduct(ctx, inventory.Form{})
		case "edit":
			if idx, err := pickIndex(fields, len(products)); err == nil {
				t.editProduct(ctx, inventory.FormFromProduct(products[idx]))
			}
		case "del":
			idx, err := pickIndex(fields, len(products))
			if err != nil {
				continue
			}
			if err := t.inventory.Delete(ctx, products[idx].ID); err != nil {
				t.showError(ctx, err)
				continue
			}
			fmt.Fprintf(t.out, "Deleted %s.\n", products[idx].Name)
			if err := t.catalog.Refresh(ctx, t.client); err != nil {
				t.showError(ctx, err)
			}
		}
	}
}

func (t *Terminal) editProduct(ctx context.Context, form inventory.Form) {
	var ok bool
	if form.Name, ok = t.promptDefault("Name", form.Name); !ok {
		return
	}
	if form.SKU, ok = t.promptDefault("SKU (blank to generate)", form.SKU); !ok {
		return
	}
	if form.Category, ok = t.promptDefault("Category", form.Category); !ok {
		return
	}

	units := t.catalog.Units()
	if len(units) > 0 {
		names := make([]string, len(units))
		for i, u := range units {
			names[i] = u.Name
		}
		fmt.Fprintf(t.out, "Units: %s\n", strings.Join(names, ", "))
	}
	if form.Unit, ok = t.promptDefault("Unit", form.Unit); !ok {
		return
	}

	priceRaw, ok := t.promptDefault("Price", form.Price.String())
	if !ok {
		return
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		t.showError(ctx, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number"))
		return
	}
	form.Price = price

	stockRaw, ok := t.promptDefault("Stock", strconv.Itoa(form.Stock))
	if !ok {
		return
	}
	stock, err := strconv.Atoi(stockRaw)
	if err != nil {
		t.showError(ctx, pkgerrors.New(pkgerrors.CodeValidation, "stock must be a whole number"))
		return
	}
	form.Stock = stock

	sku, err := t.inventory.Save(ctx, form)
	if err != nil {
		t.showError(ctx, err)
		return
	}
	fmt.Fprintf(t.out, "Saved %s (%s).\n", form.Name, sku)
	if err := t.catalog.Refresh(ctx, t.client); err != nil {
		t.showError(ctx, err)
	}
}

func (t *Terminal) employeesScreen(ctx context.Context) {
	for {
		users, err := t.employees.List(ctx)
		if err != nil {
			t.showError(ctx, err)
			return
		}
		fmt.Fprintln(t.out, "\n--- Employees ---")
		for i, u := range users {
			fmt.Fprintf(t.out, "%2d) %-24s %-28s %s\n", i+1, u.Name, u.Email, u.Role)
		}
		fmt.Fprintln(t.out, "Commands: add | edit <n> | del <n> | passwd <n> | back")
		line, ok := t.prompt("employees> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "add":
			t.editEmployee(ctx, employees.Form{})
		case "edit":
			if idx, err := pickIndex(fields, len(users)); err == nil {
				t.editEmployee(ctx, employees.FormFromUser(users[idx]))
			}
		case "del":
			idx, err := pickIndex(fields, len(users))
			if err != nil {
				continue
			}
			if err := t.employees.Delete(ctx, users[idx].ID); err != nil {
				t.showError(ctx, err)
			}
		case "passwd":
			idx, err := pickIndex(fields, len(users))
			if err != nil {
				continue
			}
			password, ok := t.prompt("New password: ")
			if !ok {
				return
			}
			if err := t.employees.ResetPassword(ctx, users[idx].ID, password); err != nil {
				t.showError(ctx, err)
				continue
			}
			fmt.Fprintf(t.out, "Password updated for %s.\n", users[idx].Email)
		}
	}
}

func (t *Terminal) editEmployee(ctx context.Context, form employees.Form) {
	var ok bool
	if form.Name, ok = t.promptDefault("Name", form.Name); !ok {
		return
	}
	if form.Email, ok = t.promptDefault("Email", form.Email); !ok {
		return
	}
	if form.ID == "" {
		if form.Password, ok = t.prompt("Password: "); !ok {
			return
		}
	}
	if form.Role, ok = t.promptDefault("Role", form.Role); !ok {
		return
	}
	if err := t.employees.Save(ctx, form); err != nil {
		t.showError(ctx, err)
		return
	}
	fmt.Fprintf(t.out, "Saved %s.\n", form.Email)
}

func (t *Terminal) auditScreen(ctx context.Context) {
	entries, err := auditlog.Fetch(ctx, t.client)
	if err != nil {
		t.showError(ctx, err)
		return
	}

	date, ok := t.prompt("Filter by date yyyy-mm-dd (blank for all): ")
	if !ok {
		return
	}
	entries = auditlog.FilterByDate(entries, date)
	if len(entries) == 0 {
		fmt.Fprintln(t.out, "No audit entries.")
		return
	}

	page := 1
	perPage := pagination.DefaultPerPage
	for {
		page = pagination.ClampPage(page, len(entries), perPage)
		visible := pagination.Slice(entries, page, perPage)
		fmt.Fprintf(t.out, "\n--- Audit log (page %d/%d) ---\n", page, pagination.TotalPages(len(entries), perPage))
		for i, e := range visible {
			fmt.Fprintf(t.out, "%2d) %s  %-8s %s\n", i+1, e.CreatedAt.UTC().Format("2006-01-02 15:04"), e.Action, e.Email)
		}
		fmt.Fprintln(t.out, "Commands: show <n> | per <n> | next | prev | back")
		line, ok := t.prompt("audit> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "show":
			if idx, err := pickIndex(fields, len(visible)); err == nil {
				fmt.Fprintln(t.out, auditlog.RenderDetails(visible[idx]))
			}
		case "per":
			if len(fields) == 2 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					perPage, page = pagination.NormalizePerPage(n), 1
				}
			}
		case "next":
			page++
		case "prev":
			page--
		}
	}
}

func (t *Terminal) salesScreen(ctx context.Context) {
	history, err := t.client.ListSales(ctx)
	if err != nil {
		t.showError(ctx, err)
		return
	}
	loc := t.cfg.Export.Location()

	var filter reports.Filter
	page := 1
	perPage := pagination.DefaultPerPage

	for {
		filtered := reports.Apply(history, filter, loc)
		page = pagination.ClampPage(page, len(filtered), perPage)
		visible := pagination.Slice(filtered, page, perPage)

		fmt.Fprintf(t.out, "\n--- Sales (page %d/%d, %d matching) ---\n", page, pagination.TotalPages(len(filtered), perPage), len(filtered))
		for i, sale := range visible {
			fmt.Fprintf(t.out, "%2d) %s  %-26s ฿%-8s %-4s %s\n",
				i+1, sale.CreatedAt.In(loc).Format("02/01/2006 15:04"), sale.ReceiptID,
				sale.DiscountedPrice.String(), sale.PaymentMethod, sale.Cashier)
		}
		fmt.Fprintf(t.out, "Page net: ฿%s\n", reports.NetTotal(visible).String())

		fmt.Fprintln(t.out, "Commands: date <yyyy-mm-dd> | month <yyyy-mm> | receipt <text> | clear | summary | export | per <n> | next | prev | back")
		line, ok := t.prompt("sales> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "date":
			if len(fields) == 2 {
				filter.Date, page = fields[1], 1
			}
		case "month":
			if len(fields) == 2 {
				filter.Month, page = fields[1], 1
			}
		case "receipt":
			if len(fields) == 2 {
				filter.Receipt, page = fields[1], 1
			}
		case "clear":
			filter, page = reports.Filter{}, 1
		case "summary":
			t.printSummary(filtered, loc)
		case "export":
			path, err := t.exporter.Export(filtered, t.exporter.DefaultFilename(time.Now()))
			if err != nil {
				t.showError(ctx, err)
				continue
			}
			fmt.Fprintf(t.out, "Exported %d sales to %s.\n", len(filtered), path)
		case "per":
			if len(fields) == 2 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					perPage, page = pagination.NormalizePerPage(n), 1
				}
			}
		case "next":
			page++
		case "prev":
			page--
		}
	}
}

func (t *Terminal) printSummary(sales []api.Sale, loc *time.Location) {
	fmt.Fprintf(t.out, "\nNet total: ฿%s over %d sales\n", reports.NetTotal(sales).String(), len(sales))

	fmt.Fprintln(t.out, "By payment method:")
	for _, share := range reports.PaymentSplit(sales) {
		fmt.Fprintf(t.out, "  %-6s ฿%-10s %s%%\n", share.Method, share.Total.String(), share.Percent.String())
	}

	fmt.Fprintln(t.out, "Daily revenue:")
	for _, point := range reports.DailySeries(sales, loc) {
		fmt.Fprintf(t.out, "  %s  ฿%s\n", point.Label, point.Total.String())
	}

	fmt.Fprintln(t.out, "Best sellers:")
	for i, rank := range reports.BestSellers(sales, 10) {
		fmt.Fprintf(t.out, "  %2d. %-24s %d sold\n", i+1, rank.Name, rank.Qty)
	}
}

// showError translates an error into its operator-facing message and logs
// the underlying cause.
func (t *Terminal) showError(ctx context.Context, err error) {
	code := pkgerrors.CodeOf(err)
	meta := pkgerrors.MetadataFor(code)

	t.logg.Error(ctx, "operation failed", err)
	fmt.Fprintf(t.out, "! %s\n", meta.UserMessage)

	if appErr := pkgerrors.As(err); meta.DetailsAllowed && appErr != nil && appErr.Details() != nil {
		fmt.Fprintf(t.out, "  %v\n", appErr.Details())
	}
	if meta.EndsSession {
		fmt.Fprintln(t.out, "  You have been signed out.")
	}
}

func (t *Terminal) prompt(label string) (string, bool) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// promptDefault keeps the current value when the cashier just hits enter.
func (t *Terminal) promptDefault(label, current string) (string, bool) {
	suffix := ""
	if current != "" {
		suffix = fmt.Sprintf(" [%s]", current)
	}
	answer, ok := t.prompt(fmt.Sprintf("%s%s: ", label, suffix))
	if !ok {
		return "", false
	}
	if answer == "" {
		return current, true
	}
	return answer, true
}

// pickIndex parses a 1-based index argument like "edit 3" against a list
// length.
func pickIndex(fields []string, length int) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("missing index")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > length {
		return 0, fmt.Errorf("index out of range")
	}
	return n - 1, nil
}
