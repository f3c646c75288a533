package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "KM"

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func NewMoney(amount float64, currency string) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

type moneyJSON struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

// MarshalJSON writes the amount as a JSON number instead of decimal's quoted
// string so stored carts stay readable by the web client.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   json.Number(m.Amount.String()),
		Currency: m.Currency,
	})
}

func (m *Money) UnmarshalJSON(b []byte) error {
	var raw struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	m.Amount = raw.Amount
	m.Currency = raw.Currency
	return nil
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// LineItem is one purchasable line. ID is the line key; product detail pages
// use "<productId>::<size>" for sized products.
type LineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	Size      *string `json:"size"`
	Image     *Image  `json:"image,omitempty"`
	UnitPrice Money   `json:"unitPrice"`
	Qty       int     `json:"qty"`
	Slug      string  `json:"slug,omitempty"`
}

// LineTotal is unit price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(l.Qty)))
}

// Snapshot is the cart state together with every derived value, all computed
// from the same list of lines.
type Snapshot struct {
	Items                 []LineItem `json:"items"`
	ItemsCount            int        `json:"itemsCount"`
	Subtotal              Money      `json:"subtotal"`
	FreeShippingThreshold Money      `json:"freeShippingThreshold"`
	AmountToFreeShipping  Money      `json:"amountToFreeShipping"`
	FreeShippingProgress  float64    `json:"freeShippingProgress"`
}
