package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"planeta-be/internal/cart"
	"planeta-be/internal/catalog"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	saleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F"))
	oldStyle     = lipgloss.NewStyle().Strikethrough(true).Faint(true)
)

func price(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}

func money(m cart.Money) string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

func renderListing(w io.Writer, v catalog.View) {
	fmt.Fprintln(w, headingStyle.Render(v.Heading))
	if len(v.Products) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Nema proizvoda za izabrane filtere."))
	}

	for _, p := range v.Products {
		line := fmt.Sprintf("%-12s %-40s %14s", p.ID, p.Name, price(p.Price, p.Currency))
		if p.OldPrice != nil {
			line += " " + oldStyle.Render(price(*p.OldPrice, p.Currency))
		}
		if !p.InStock {
			line += " " + mutedStyle.Render("(nema na stanju)")
		}
		if p.New {
			line += " " + saleStyle.Render("NOVO")
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "Strana %d/%d, ukupno %d\n", v.Page, v.TotalPages, v.TotalCount)
	if len(v.Brands) > 0 {
		fmt.Fprintln(w, "Brendovi: "+facetList(v.Brands, v.Filters.Brands))
	}
	if len(v.Sizes) > 0 {
		fmt.Fprintln(w, "Veličine: "+facetList(v.Sizes, v.Filters.Sizes))
	}
	fmt.Fprintf(w, "Cijena: %.2f - %.2f\n", v.PriceBounds.Min, v.PriceBounds.Max)
}

// facetList marks values the server or the current filters report as chosen.
func facetList(fs []catalog.Facet, selected []string) string {
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		s := fmt.Sprintf("%s (%d)", f.Value, f.Count)
		if f.AlreadySelected || slices.Contains(selected, f.Value) {
			s = "*" + s
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func renderProduct(w io.Writer, p catalog.ProductDetails) {
	fmt.Fprintln(w, headingStyle.Render(p.Name))
	fmt.Fprintln(w, mutedStyle.Render(p.Brand))

	line := price(p.Price, p.Currency)
	if p.OldPrice != nil {
		line += " " + oldStyle.Render(price(*p.OldPrice, p.Currency))
	}
	if pct, ok := p.PercentOff(); ok {
		line += " " + saleStyle.Render("-"+pct)
	}
	fmt.Fprintln(w, line)

	if p.HasSizes() {
		sizes := make([]string, 0, len(p.Sizes))
		for _, s := range p.Sizes {
			if !p.SizeInStock(s) {
				s = oldStyle.Render(s)
			}
			sizes = append(sizes, s)
		}
		fmt.Fprintln(w, "Veličine: "+strings.Join(sizes, " "))
	} else if !p.InStock {
		fmt.Fprintln(w, mutedStyle.Render("Nema na stanju"))
	}

	if p.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.Description)
	}
}

func renderCart(w io.Writer, s cart.Snapshot) {
	if len(s.Items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Korpa je prazna."))
	}
	for _, it := range s.Items {
		name := it.Name
		if it.Size != nil {
			name += " / " + *it.Size
		}
		total := cart.Money{Amount: it.LineTotal(), Currency: it.UnitPrice.Currency}
		fmt.Fprintf(w, "%-20s %-40s x%-3d %14s\n", it.ID, name, it.Qty, money(total))
	}

	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("Ukupno (%d): %s", s.ItemsCount, money(s.Subtotal))))
	if s.AmountToFreeShipping.Amount.IsPositive() {
		fmt.Fprintf(w, "Do besplatne dostave: %s\n", money(s.AmountToFreeShipping))
	} else if s.ItemsCount > 0 {
		fmt.Fprintln(w, saleStyle.Render("Besplatna dostava!"))
	}
}
