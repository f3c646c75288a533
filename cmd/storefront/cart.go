package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"planeta-be/internal/cart"
	"planeta-be/internal/catalog"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the local cart",
		Long: `Inspect and change the cart stored under --cart-dir.

Available subcommands:
  list   - Show lines and totals
  add    - Add a product variant, with --size when it has sizes
  set    - Set the quantity of a line
  inc    - Add one to a line
  dec    - Take one from a line, never below one
  remove - Drop a line
  clear  - Empty the cart`,
	}

	var size string
	add := &cobra.Command{
		Use:   "add <variant-id>",
		Short: "Add a product variant to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.productDetails(cmd, args[0])
			if err != nil {
				return err
			}
			line, err := p.CartLine(size)
			if err != nil {
				return errors.New(catalog.Message(err))
			}
			return a.withCart(cmd, "", func(st *cart.Store) { st.Add(cmd.Context(), line) })
		},
	}
	add.Flags().StringVar(&size, "size", "", "size to add")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show cart lines and totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCart(cmd, "", nil)
			},
		},
		add,
		&cobra.Command{
			Use:   "set <line-id> <qty>",
			Short: "Set the quantity of a line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				return a.withCart(cmd, args[0], func(st *cart.Store) { st.SetQty(cmd.Context(), args[0], qty) })
			},
		},
		lineCmd(a, "inc", "Add one to a line", (*cart.Store).Inc),
		lineCmd(a, "dec", "Take one from a line", (*cart.Store).Dec),
		lineCmd(a, "remove", "Drop a line", (*cart.Store).Remove),
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withCart(cmd, "", func(st *cart.Store) { st.Clear(cmd.Context()) })
			},
		},
	)
	return cmd
}

func lineCmd(a *app, use, short string, op func(*cart.Store, context.Context, string)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <line-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCart(cmd, args[0], func(st *cart.Store) { op(st, cmd.Context(), args[0]) })
		},
	}
}

// withCart opens the cart, applies fn and prints the result. A non-empty
// lineID must name an existing line.
func (a *app) withCart(cmd *cobra.Command, lineID string, fn func(*cart.Store)) error {
	st, err := a.openCart(cmd.Context())
	if err != nil {
		return err
	}
	if lineID != "" && !st.Has(lineID) {
		return fmt.Errorf("%w: %s", cart.ErrCartItemNotFound, lineID)
	}
	if fn != nil {
		fn(st)
	}

	snap := st.Snapshot()
	if a.asJSON {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	renderCart(cmd.OutOrStdout(), snap)
	return nil
}
