package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fjod/go_cart/netcart/internal/coupon"
	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/fjod/go_cart/netcart/internal/pricing"
	"github.com/fjod/go_cart/netcart/internal/service"
	"github.com/fjod/go_cart/netcart/internal/session"
)

func newQuoteCmd() *cobra.Command {
	var (
		items      []string
		shipping   string
		couponCode string
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a cart without starting the server",
		Example: `  netcart quote --item p1=2 --shipping express --coupon save15
  netcart quote --item p2 --item p3=3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuote(cmd.OutOrStdout(), items, shipping, couponCode)
		},
	}

	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "product=quantity, repeatable; quantity defaults to 1")
	cmd.Flags().StringVarP(&shipping, "shipping", "s", "standard", "shipping method: standard or express")
	cmd.Flags().StringVar(&couponCode, "coupon", "", "coupon code to apply")
	return cmd
}

func runQuote(w io.Writer, items []string, shipping, couponCode string) error {
	sess := session.NewFactory(nil, nil, nil).New()

	for _, item := range items {
		id, qty, found := strings.Cut(item, "=")
		if !found {
			qty = "1"
		}
		if err := sess.SetQuantity(strings.TrimSpace(id), qty); err != nil {
			return err
		}
	}

	method, err := domain.ParseShippingMethod(shipping)
	if err != nil {
		return err
	}
	sess.SetShipping(method)

	if couponCode != "" {
		if _, err := sess.ApplyCoupon(couponCode); err != nil {
			if !errors.Is(err, coupon.ErrInvalidCode) {
				return err
			}
			fmt.Fprintln(w, service.MsgCouponInvalid)
		}
	}

	return printTotals(w, sess.ComputeTotals())
}

func printTotals(w io.Writer, t pricing.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PRODUCT\tCOMPANY\tQTY\tPRICE\tSUBTOTAL\t")
	for _, l := range t.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			l.Title, l.Company, l.Quantity, pricing.FormatPrice(l.UnitPrice), pricing.FormatPrice(l.Subtotal))
	}
	fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", pricing.FormatPrice(t.Subtotal))
	fmt.Fprintf(tw, "\t\t\tShipping (%s)\t%s\t\n", t.Shipping, pricing.FormatPrice(t.ShippingCost))
	if t.CouponActive {
		fmt.Fprintf(tw, "\t\t\tDiscount (%s)\t-%s\t\n", t.CouponCode, pricing.FormatPrice(t.Discount))
	}
	fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", pricing.FormatPrice(t.Total))
	return tw.Flush()
}
