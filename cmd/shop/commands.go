package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// 利用者向けの短い文言（詳細はログ）
func notice(err error) string {
	switch {
	case errors.Is(err, usecase.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, usecase.ErrCheckoutInProgress):
		return "Checkout is already in progress."
	case errors.Is(err, usecase.ErrCheckoutFailed):
		return "Checkout failed."
	case errors.Is(err, repo.ErrNetwork):
		return "Checkout error."
	case errors.Is(err, usecase.ErrProductNotFound):
		return err.Error()
	default:
		return "error: " + err.Error()
	}
}

func newListCmd(a *app) *cobra.Command {
	var query, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products (search with --q, order with --sort)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := a.feed.List(cmd.Context())
			if err != nil {
				return err
			}

			view := a.catalog.View(products, query, usecase.ParseSortKey(sortKey))

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
			for _, p := range view {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, a.money.Format(p.Price))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&query, "q", "", "case-insensitive name search")
	cmd.Flags().StringVar(&sortKey, "sort", "", "price-asc | price-desc | name-asc | name-desc")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart (or add one more)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			if err := a.cart.AddOrIncrement(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), a)
		},
	}
}

func newQtyCmd(a *app, use, short string, delta int64) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <product-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			if err := a.cart.ChangeQuantity(cmd.Context(), args[0], delta); err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), a)
		},
	}
}

func newSetDeltaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "qty <product-id> <delta>",
		Short: "Change a cart line by delta (negative values decrease)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be an integer: %w", err)
			}
			if err := a.cart.ChangeQuantity(cmd.Context(), args[0], delta); err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), a)
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			if err := a.cart.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printCart(cmd.OutOrStdout(), a)
		},
	}
}

func newCartCmd(a *app) *cobra.Command {
	var lineItems bool

	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			if !lineItems {
				return printCart(cmd.OutOrStdout(), a)
			}

			//プロバイダに渡る明細
			items, err := usecase.ToLineItems(model.Cart{Lines: a.cart.Lines()})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tQTY\tCURRENCY\tUNIT AMOUNT")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", it.ProductName, it.Quantity, it.Currency, it.UnitAmountMinorUnits)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&lineItems, "line-items", false, "show the payment line items instead")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cart.Clear(cmd.Context()); err != nil {
				return err
			}
			a.openErr = nil
			return printCart(cmd.OutOrStdout(), a)
		},
	}
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Create a hosted payment session and print the redirect URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireCart(); err != nil {
				return err
			}
			url, err := a.checkout.Checkout(cmd.Context())
			if url != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Continue to payment: %s\n", url)
			}
			return err
		},
	}
}

func printCart(out io.Writer, a *app) error {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		_, err := fmt.Fprintln(out, "Cart is empty.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tTOTAL")
	for _, l := range lines {
		total := l.Price.Mul(decimal.NewFromInt(l.Quantity))
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", l.ID, l.Name, l.Quantity, a.money.Format(total))
	}
	fmt.Fprintf(w, "\t\t%d items\t%s\n", a.cart.ItemCount(), a.money.Format(a.cart.Subtotal()))
	return w.Flush()
}
