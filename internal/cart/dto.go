package cart

type MoneyRequest struct {
	Amount   *float64 `json:"amount" validate:"required,gte=0"`
	Currency string   `json:"currency" validate:"omitempty,max=8"`
}

type ImageRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
	Alt string `json:"alt" validate:"max=300"`
}

type AddItemRequest struct {
	ID        string        `json:"id" validate:"required,max=200"`
	ProductID string        `json:"productId" validate:"max=100"`
	Name      string        `json:"name" validate:"required,max=300"`
	SKU       string        `json:"sku" validate:"max=100"`
	Size      *string       `json:"size" validate:"omitempty,max=50"`
	Image     *ImageRequest `json:"image"`
	UnitPrice MoneyRequest  `json:"unitPrice"`
	Qty       *float64      `json:"qty" validate:"omitempty,gte=0"`
	Slug      string        `json:"slug" validate:"max=300"`
}

type UpdateQtyRequest struct {
	Qty *float64 `json:"qty" validate:"required"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}

// ToLineItem maps a validated request onto a cart line. A fractional qty is
// floored; a missing one is left for the store to default.
func (r AddItemRequest) ToLineItem(defaultCurrency string) LineItem {
	currency := r.UnitPrice.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	item := LineItem{
		ID:        r.ID,
		ProductID: r.ProductID,
		Name:      r.Name,
		SKU:       r.SKU,
		Size:      r.Size,
		UnitPrice: NewMoney(*r.UnitPrice.Amount, currency),
		Slug:      r.Slug,
	}
	if r.Image != nil {
		item.Image = &Image{URL: r.Image.URL, Alt: r.Image.Alt}
	}
	if r.Qty != nil {
		item.Qty = clampQty(*r.Qty)
	}
	return item
}
