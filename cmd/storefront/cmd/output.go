package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/donaldgifford/storefront/internal/cart"
	domain "github.com/donaldgifford/storefront/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printProductsTable(w io.Writer, products []domain.Product, isFavorite func(int) bool) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTITLE\tPRICE\tSTOCK\tFAV\n")
	for i := range products {
		p := &products[i]
		fav := ""
		if isFavorite != nil && isFavorite(p.ID) {
			fav = "*"
		}
		stock := fmt.Sprintf("%d in stock", p.Stock)
		if !p.InStock() {
			stock = "out of stock"
		}
		tw.writef("%d\t%s\t$%.2f\t%s\t%s\n",
			p.ID,
			truncate(p.Title, 40),
			p.Price,
			stock,
			fav,
		)
	}
	return tw.finish()
}

func printCartTable(w io.Writer, items []cart.LineItem, totals cart.Totals) error {
	tw := newTabWriter(w)
	tw.writef("ID\tNAME\tUNIT\tPRICE\tQTY\tLINE TOTAL\n")
	for i := range items {
		it := &items[i]
		tw.writef("%d\t%s\t%s\t$%.2f\t%d\t$%.2f\n",
			it.ID,
			truncate(it.Name, 40),
			it.Unit,
			it.Price,
			it.Quantity,
			it.Total(),
		)
	}
	tw.writef("\t\t\t\tSubtotal:\t$%.2f\n", totals.Subtotal)
	tw.writef("\t\t\t\tDelivery:\t$%.2f\n", totals.Delivery)
	tw.writef("\t\t\t\tTotal:\t$%.2f\n", totals.Total)
	return tw.finish()
}

// cartView is the JSON shape of a cart.
type cartView struct {
	Items  []cart.LineItem `json:"items"`
	Totals cart.Totals     `json:"totals"`
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
