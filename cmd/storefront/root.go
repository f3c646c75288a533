package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"planeta-be/internal/cart"
	"planeta-be/internal/catalogapi"
	"planeta-be/internal/config"
	"planeta-be/internal/storage"
	"planeta-be/internal/storefront"
)

// app holds what every subcommand shares. catalog is built lazily so the
// cart commands work without a reachable catalog API.
type app struct {
	cfg     *config.Config
	catalog storefront.Catalog
	cartDir string
	asJSON  bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the catalog and manage a local cart",
		Long: `Command line client for the storefront.

Available subcommands:
  products - List products for a gender/category route
  product  - Show one product variant
  cart     - Inspect and change the local cart`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.cartDir, "cart-dir", a.cfg.CartDir, "directory holding the local cart")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(newProductsCmd(a), newProductCmd(a), newCartCmd(a))
	return root
}

func (a *app) catalogClient() storefront.Catalog {
	if a.catalog == nil {
		a.catalog = catalogapi.New(a.cfg.CatalogAPIURL, a.cfg.CatalogTimeout)
	}
	return a.catalog
}

// openCart loads the cart persisted under --cart-dir.
func (a *app) openCart(ctx context.Context) (*cart.Store, error) {
	fs, err := storage.NewFile(a.cartDir)
	if err != nil {
		return nil, err
	}
	return cart.NewStore(ctx, cart.Options{
		Key:                   a.cfg.CartKey,
		Storage:               fs,
		FreeShippingThreshold: cart.NewMoney(a.cfg.FreeShippingThreshold, a.cfg.Currency),
		DefaultCurrency:       a.cfg.Currency,
	}), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
