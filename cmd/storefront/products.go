package main

import (
	"errors"

	"github.com/spf13/cobra"

	"planeta-be/internal/catalog"
	"planeta-be/internal/storefront"
)

type listFlags struct {
	sort     string
	inStock  bool
	sale     bool
	brands   []string
	sizes    []string
	minPrice string
	maxPrice string
	page     int
	pageSize int
}

// apply sets the flag choices on the listing's filters. Repeated values are
// added, not toggled, so naming a brand twice still selects it.
func (lf listFlags) apply(f *catalog.FilterState) {
	f.SetSort(catalog.ParseSortKey(lf.sort))
	f.SetInStock(lf.inStock)
	f.SetSale(lf.sale)
	for _, b := range lf.brands {
		if b != "" {
			f.Brands[b] = struct{}{}
		}
	}
	for _, s := range lf.sizes {
		if s != "" {
			f.Sizes[s] = struct{}{}
		}
	}
	f.ApplyPrice(lf.minPrice, lf.maxPrice)
	if lf.pageSize > 0 {
		f.PageSize = lf.pageSize
	}
}

func newProductsCmd(a *app) *cobra.Command {
	var lf listFlags

	cmd := &cobra.Command{
		Use:     "products <gender> <category>",
		Short:   "List products for a route, e.g. zene patike",
		Example: "  storefront products muskarci patike --brand Nike --size 42 --sort cijena_rastuce",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listing := catalog.NewListing(a.catalogClient(), a.cfg.MediaProductURL)
			if err := listing.Load(cmd.Context(), args[0], args[1]); err != nil {
				return errors.New(catalog.Message(err))
			}

			listing.Update(lf.apply)
			listing.GoPage(lf.page)
			view := listing.View()
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			renderListing(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVar(&lf.sort, "sort", string(catalog.SortNewest), "sort order: novo, cijena_rastuce or cijena_opadajuce")
	cmd.Flags().BoolVar(&lf.inStock, "in-stock", false, "only products in stock")
	cmd.Flags().BoolVar(&lf.sale, "sale", false, "only discounted products")
	cmd.Flags().StringSliceVar(&lf.brands, "brand", nil, "brand filter, repeatable")
	cmd.Flags().StringSliceVar(&lf.sizes, "size", nil, "size filter, repeatable")
	cmd.Flags().StringVar(&lf.minPrice, "min-price", "", "lower price bound")
	cmd.Flags().StringVar(&lf.maxPrice, "max-price", "", "upper price bound")
	cmd.Flags().IntVar(&lf.page, "page", 1, "page number")
	cmd.Flags().IntVar(&lf.pageSize, "page-size", catalog.DefaultPageSize, "products per page")
	return cmd
}

func newProductCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "product <variant-id>",
		Short: "Show one product variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.productDetails(cmd, args[0])
			if err != nil {
				return err
			}

			if a.asJSON {
				pct, _ := p.PercentOff()
				return writeJSON(cmd.OutOrStdout(), storefront.ProductResponse{ProductDetails: p, PercentOff: pct})
			}
			renderProduct(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func (a *app) productDetails(cmd *cobra.Command, id string) (catalog.ProductDetails, error) {
	d, err := a.catalogClient().GetVariantDetails(cmd.Context(), id)
	if err != nil {
		return catalog.ProductDetails{}, errors.New(catalog.Message(err))
	}
	return catalog.ToDetails(*d, id, a.cfg.MediaProductURL), nil
}
