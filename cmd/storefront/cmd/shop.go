package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/storefront/internal/cart"
	"github.com/donaldgifford/storefront/internal/catalog"
	"github.com/donaldgifford/storefront/internal/config"
	"github.com/donaldgifford/storefront/pkg/counter"
	"github.com/donaldgifford/storefront/pkg/logger"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

const shopHelp = `Commands:
  list                 reload the first page
  more                 load the next page
  search <term>        search by title (empty term returns to paging)
  clear                clear the search
  fav <id>             toggle a favorite
  favs                 list favorite ids
  add <id>             add a product to the cart (quantity 1)
  + <id> / - <id>      step the product's quantity picker
  inc <id> / dec <id>  step a cart line (dec at 1 removes it)
  qty <id> <n>         set a cart line quantity (n < 1 removes)
  rm <id>              remove a cart line
  cart                 show the cart and totals
  retry                retry loading the server cart
  help                 show this help
  quit                 leave`

func shopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Interactive catalog and cart session",
		Long: "shop starts an interactive session: the first page of products and\n" +
			"the server cart are loaded, then commands are read from stdin.\n" +
			"Searches are debounced the same way as keystrokes in a search box.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg)
			client, rl := newLimitedClient(cfg, log)
			defer func() { log.Debug("shop session ended", "remote_calls", rl.Calls()) }()

			ctrl := catalog.NewController(client,
				catalog.WithLogger(logger.Component(log, "catalog")),
				catalog.WithPageSize(cfg.Catalog.PageSize),
				catalog.WithDebounce(cfg.Catalog.SearchDebounce),
			)
			defer ctrl.Close()

			s := newShopSession(cfg, ctrl, newCart(cfg, client, log), log, cmd.InOrStdin(), cmd.OutOrStdout())
			return s.run(cmd.Context())
		},
	}
}

// shopSession drives the controllers from line-oriented commands.
type shopSession struct {
	cfg  *config.Config
	ctrl *catalog.Controller
	cart *cart.Cart
	log  *slog.Logger
	in   *bufio.Scanner
	out  io.Writer

	// pickers are the product-card quantity steppers, keyed by product id.
	pickers map[int]*counter.Counter
}

func newShopSession(
	cfg *config.Config,
	ctrl *catalog.Controller,
	c *cart.Cart,
	log *slog.Logger,
	in io.Reader,
	out io.Writer,
) *shopSession {
	return &shopSession{
		cfg:     cfg,
		ctrl:    ctrl,
		cart:    c,
		log:     log,
		in:      bufio.NewScanner(in),
		out:     out,
		pickers: make(map[int]*counter.Counter),
	}
}

func (s *shopSession) run(ctx context.Context) error {
	if err := s.cart.Load(ctx); err != nil {
		s.printf("Could not load your cart: %v\nType 'retry' to try again.\n", err)
	}
	s.ctrl.LoadPage(ctx, 1)
	if err := s.showProducts(); err != nil {
		return err
	}

	for {
		s.printf("> ")
		if !s.in.Scan() {
			s.printf("\n")
			return s.in.Err()
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		if name == "quit" || name == "exit" {
			return nil
		}
		if err := s.dispatch(ctx, name, strings.TrimSpace(rest)); err != nil {
			return err
		}
	}
}

func (s *shopSession) dispatch(ctx context.Context, name, arg string) error {
	switch name {
	case "help":
		s.printf("%s\n", shopHelp)
	case "list":
		s.ctrl.LoadPage(ctx, 1)
		return s.showProducts()
	case "more":
		if !s.ctrl.LoadMore(ctx) {
			s.printf("Nothing more to load while a search is active.\n")
			return nil
		}
		return s.showProducts()
	case "search":
		s.ctrl.SetSearchTerm(arg)
		s.ctrl.Wait()
		return s.showProducts()
	case "clear":
		s.ctrl.SetSearchTerm("")
		s.ctrl.Wait()
		return s.showProducts()
	case "fav":
		return s.withID(arg, func(id int) error {
			if s.ctrl.ToggleFavorite(id) {
				s.printf("Product %d added to favorites.\n", id)
			} else {
				s.printf("Product %d removed from favorites.\n", id)
			}
			return nil
		})
	case "favs":
		s.printf("Favorites: %v\n", s.ctrl.State().Favorites)
	case "add":
		return s.withID(arg, s.add)
	case "+", "-":
		return s.withID(arg, func(id int) error { return s.stepPicker(id, name == "+") })
	case "inc", "dec":
		return s.withID(arg, func(id int) error { return s.stepLine(id, name == "inc") })
	case "qty":
		return s.setQuantity(arg)
	case "rm":
		return s.withID(arg, func(id int) error {
			if !s.cart.Remove(id) {
				s.printf("Product %d is not in the cart.\n", id)
				return nil
			}
			delete(s.pickers, id)
			return s.showCart()
		})
	case "cart":
		return s.showCart()
	case "retry":
		if err := s.cart.Retry(ctx); err != nil {
			s.printf("Still could not load your cart: %v\n", err)
			return nil
		}
		s.syncPickers()
		return s.showCart()
	default:
		s.printf("Unknown command %q. Type 'help' for a list.\n", name)
	}
	return nil
}

func (s *shopSession) add(id int) error {
	p, ok := s.findProduct(id)
	if !ok {
		s.printf("Product %d is not in the current list.\n", id)
		return nil
	}

	// A product already in the cart shows its picker instead of an add button.
	qty, inCart := s.lineQuantity(id)
	if !inCart {
		qty = 1
		if err := s.cart.AddItem(&p, qty); err != nil {
			return err
		}
	}

	s.pickers[id] = counter.New(qty,
		counter.WithBounds(s.cfg.Quantity.Min, s.cfg.Quantity.Max),
		counter.WithOnChange(func(v int) {
			if err := s.cart.AddItem(&p, v); err != nil {
				s.log.Warn("updating cart from picker", "id", id, "error", err)
			}
		}),
	)
	if inCart {
		s.printf("%s is already in the cart (quantity %d). Use + or - to change it.\n", p.Title, qty)
		return nil
	}
	s.printf("Added %s to the cart.\n", p.Title)
	return nil
}

func (s *shopSession) stepPicker(id int, up bool) error {
	picker, ok := s.pickers[id]
	if !ok {
		s.printf("Add product %d to the cart first.\n", id)
		return nil
	}

	if (up && !picker.CanIncrement()) || (!up && !picker.CanDecrement()) {
		lo, hi := picker.Bounds()
		s.printf("Quantity stays within %d..%d.\n", lo, hi)
		return nil
	}
	if up {
		picker.Increment()
	} else {
		picker.Decrement()
	}
	s.printf("Product %d quantity: %d\n", id, picker.Value())
	return nil
}

func (s *shopSession) stepLine(id int, up bool) error {
	qty, ok := s.lineQuantity(id)
	if !ok {
		s.printf("Product %d is not in the cart.\n", id)
		return nil
	}
	if up {
		qty++
	} else {
		qty--
	}
	s.cart.UpdateQuantity(id, qty)
	s.syncPickers()
	return s.showCart()
}

func (s *shopSession) setQuantity(arg string) error {
	idStr, nStr, _ := strings.Cut(arg, " ")
	id, err1 := strconv.Atoi(idStr)
	n, err2 := strconv.Atoi(strings.TrimSpace(nStr))
	if err1 != nil || err2 != nil {
		s.printf("Usage: qty <id> <n>\n")
		return nil
	}
	if !s.cart.UpdateQuantity(id, n) {
		s.printf("Product %d is not in the cart.\n", id)
		return nil
	}
	s.syncPickers()
	return s.showCart()
}

// syncPickers aligns the product pickers with the cart after a line was
// changed directly. Set does not fire the picker callback.
func (s *shopSession) syncPickers() {
	for id, picker := range s.pickers {
		qty, ok := s.lineQuantity(id)
		if !ok {
			delete(s.pickers, id)
			continue
		}
		picker.Set(qty)
	}
}

func (s *shopSession) showProducts() error {
	st := s.ctrl.State()
	if st.Term != "" {
		s.printf("Results for %q: %d products\n", st.Term, len(st.Products))
	} else {
		s.printf("Page %d: %d products\n", st.Page, len(st.Products))
	}
	if len(st.Products) == 0 {
		s.printf("No products to show.\n")
		return nil
	}
	return printProductsTable(s.out, st.Products, s.ctrl.IsFavorite)
}

func (s *shopSession) showCart() error {
	if st := s.cart.Status(); st.Err != nil {
		s.printf("Could not load your cart: %v\nType 'retry' to try again.\n", st.Err)
	}
	items := s.cart.Items()
	if len(items) == 0 {
		s.printf("Your cart is empty.\n")
	}
	return printCartTable(s.out, items, s.cart.ComputeTotals())
}

func (s *shopSession) findProduct(id int) (domain.Product, bool) {
	for _, p := range s.ctrl.State().Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func (s *shopSession) lineQuantity(id int) (int, bool) {
	for _, it := range s.cart.Items() {
		if it.ID == id {
			return it.Quantity, true
		}
	}
	return 0, false
}

func (s *shopSession) withID(arg string, f func(int) error) error {
	id, err := strconv.Atoi(arg)
	if err != nil {
		s.printf("Expected a product id, got %q.\n", arg)
		return nil
	}
	return f(id)
}

func (s *shopSession) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
