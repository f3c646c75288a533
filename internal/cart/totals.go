package cart

import "github.com/shopspring/decimal"

func itemsCount(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Qty
	}
	return n
}

// subtotal sums line totals in the currency of the first line. An empty cart
// is zero in the default currency.
func subtotal(items []LineItem, defaultCurrency string) Money {
	if len(items) == 0 {
		return Money{Amount: decimal.Zero, Currency: defaultCurrency}
	}

	currency := items[0].UnitPrice.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	amount := decimal.Zero
	for _, it := range items {
		amount = amount.Add(it.LineTotal())
	}
	return Money{Amount: amount, Currency: currency}
}

// amountToFreeShipping falls back to the whole threshold when the currencies
// differ.
func amountToFreeShipping(threshold, sub Money) Money {
	if threshold.Currency != sub.Currency {
		return threshold
	}
	left := threshold.Amount.Sub(sub.Amount)
	if left.IsNegative() {
		left = decimal.Zero
	}
	return Money{Amount: left, Currency: threshold.Currency}
}

// freeShippingProgress is subtotal/threshold clamped to [0, 1]; 0 when the
// threshold is zero or in another currency.
func freeShippingProgress(threshold, sub Money) float64 {
	if threshold.Amount.IsZero() || threshold.Currency != sub.Currency {
		return 0
	}
	p := sub.Amount.Div(threshold.Amount)
	if p.IsNegative() {
		return 0
	}
	if p.GreaterThan(decimal.NewFromInt(1)) {
		return 1
	}
	f, _ := p.Float64()
	return f
}

func snapshotOf(items []LineItem, threshold Money, defaultCurrency string) Snapshot {
	sub := subtotal(items, defaultCurrency)
	return Snapshot{
		Items:                 items,
		ItemsCount:            itemsCount(items),
		Subtotal:              sub,
		FreeShippingThreshold: threshold,
		AmountToFreeShipping:  amountToFreeShipping(threshold, sub),
		FreeShippingProgress:  freeShippingProgress(threshold, sub),
	}
}
