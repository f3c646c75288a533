package catalog

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"planeta-be/internal/cart"
)

const (
	// DisplayCurrency is the currency the catalog prices are quoted in.
	DisplayCurrency  = "RSD"
	PlaceholderImage = "assets/images/placeholder.png"
	noBrand          = "—"
	defaultName      = "Proizvod"
)

// ProductCard is the listing projection of a variant.
type ProductCard struct {
	ID       string   `json:"id"`
	Slug     string   `json:"slug"`
	Name     string   `json:"name"`
	Subtitle string   `json:"subtitle,omitempty"`
	Price    float64  `json:"price"`
	OldPrice *float64 `json:"oldPrice,omitempty"`
	Currency string   `json:"currency"`
	Image    string   `json:"image"`
	New      bool     `json:"new"`
	InStock  bool     `json:"inStock"`
}

func ToCard(v Variant, mediaBaseURL string) ProductCard {
	card := ProductCard{
		ID:       v.ID,
		Slug:     cardSlug(v),
		Name:     v.ProductName,
		Subtitle: v.ProductSKU,
		Price:    v.FinalPrice,
		Currency: DisplayCurrency,
		Image:    PlaceholderImage,
		New:      v.New,
		InStock:  v.InStock(),
	}
	if v.OnSale() && v.OriginalPrice > v.FinalPrice {
		old := v.OriginalPrice
		card.OldPrice = &old
	}
	if img := mainImage(v.Images); img != "" {
		card.Image = mediaURL(mediaBaseURL, img)
	}
	return card
}

func ToCards(vs []Variant, mediaBaseURL string) []ProductCard {
	out := make([]ProductCard, 0, len(vs))
	for _, v := range vs {
		out = append(out, ToCard(v, mediaBaseURL))
	}
	return out
}

type GalleryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ProductDetails is the detail page projection of a variant.
type ProductDetails struct {
	ID          string         `json:"id"`
	ProductID   string         `json:"productId,omitempty"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Subtitle    string         `json:"subtitle,omitempty"`
	SKU         string         `json:"sku,omitempty"`
	Price       float64        `json:"price"`
	OldPrice    *float64       `json:"oldPrice,omitempty"`
	Currency    string         `json:"currency"`
	Brand       string         `json:"brand"`
	InStock     bool           `json:"inStock"`
	Sizes       []string       `json:"sizes"`
	SizeStock   map[string]int `json:"sizeStock"`
	Description string         `json:"description,omitempty"`
	Gallery     []GalleryImage `json:"gallery"`
}

// ToDetails projects the details payload. id is the requested variant id and
// wins over an empty payload id.
func ToDetails(d VariantDetails, id, mediaBaseURL string) ProductDetails {
	if d.ID != "" {
		id = d.ID
	}
	name := d.ProductName
	if name == "" {
		name = defaultName
	}

	stock := map[string]int{}
	for _, a := range d.Attributes {
		if !equalFold(a.AttributeName, SizeAttribute) {
			continue
		}
		size := strings.TrimSpace(a.Value)
		if size == "" {
			continue
		}
		stock[size] += a.Quantity
	}
	sizes := make([]string, 0, len(stock))
	inStock := false
	for s, q := range stock {
		sizes = append(sizes, s)
		if q > 0 {
			inStock = true
		}
	}
	slices.SortFunc(sizes, CompareSizes)
	if len(sizes) == 0 {
		inStock = d.InStock()
	}

	brand := d.Brand
	if brand == "" {
		brand = d.Variant.Brand()
	}
	if brand == "" {
		brand = noBrand
	}

	currency := d.Currency
	if currency == "" {
		currency = DisplayCurrency
	}

	desc := d.ShortDescription
	if desc == "" {
		desc = d.ProductDescription
	}

	out := ProductDetails{
		ID:          id,
		ProductID:   d.ProductID,
		Slug:        Slugify(name + "-" + firstNonEmpty(d.SKU, id)),
		Name:        name,
		Subtitle:    d.ProductSKU,
		SKU:         d.SKU,
		Price:       d.FinalPrice,
		Currency:    currency,
		Brand:       brand,
		InStock:     inStock,
		Sizes:       sizes,
		SizeStock:   stock,
		Description: desc,
		Gallery:     gallery(d.Images, mediaBaseURL, name),
	}
	if d.OriginalPrice > d.FinalPrice {
		old := d.OriginalPrice
		out.OldPrice = &old
	}
	return out
}

// HasSizes reports whether a size must be chosen before adding to cart.
func (p ProductDetails) HasSizes() bool {
	return len(p.Sizes) > 0
}

// SizeInStock reports whether the given size has stock left.
func (p ProductDetails) SizeInStock(size string) bool {
	return p.SizeStock[size] > 0
}

// PercentOff returns the rounded discount, e.g. "23%", and false when the
// product is not discounted.
func (p ProductDetails) PercentOff() (string, bool) {
	if p.OldPrice == nil || *p.OldPrice <= 0 || *p.OldPrice <= p.Price {
		return "", false
	}
	pct := math.Round((1 - p.Price / *p.OldPrice) * 100)
	return fmt.Sprintf("%.0f%%", pct), true
}

// CartLine builds the cart line for adding this product in the given size.
func (p ProductDetails) CartLine(size string) (cart.LineItem, error) {
	size = strings.TrimSpace(size)

	line := cart.LineItem{
		ID:        p.ID,
		ProductID: firstNonEmpty(p.ProductID, p.ID),
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: cart.NewMoney(p.Price, p.Currency),
		Qty:       1,
		Slug:      p.Slug,
	}

	if p.HasSizes() {
		if size == "" {
			return cart.LineItem{}, ErrSizeRequired
		}
		if !p.SizeInStock(size) {
			return cart.LineItem{}, ErrOutOfStock
		}
		line.ID = p.ID + "::" + size
		line.Size = &size
	} else if !p.InStock {
		return cart.LineItem{}, ErrOutOfStock
	}

	if len(p.Gallery) > 0 {
		line.Image = &cart.Image{URL: p.Gallery[0].URL, Alt: p.Gallery[0].Alt}
	}
	return line, nil
}

func cardSlug(v Variant) string {
	return Slugify(v.ProductName + "-" + firstNonEmpty(v.SKU, v.ID))
}

func mainImage(imgs []VariantImage) string {
	for _, img := range imgs {
		if img.Displayed && img.URL != "" {
			return img.URL
		}
	}
	for _, img := range imgs {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

func gallery(imgs []VariantImage, mediaBaseURL, alt string) []GalleryImage {
	ordered := slices.Clone(imgs)
	slices.SortStableFunc(ordered, func(a, b VariantImage) int {
		switch {
		case a.Displayed == b.Displayed:
			return 0
		case a.Displayed:
			return -1
		}
		return 1
	})

	out := make([]GalleryImage, 0, len(ordered))
	for _, img := range ordered {
		if img.URL == "" {
			continue
		}
		out = append(out, GalleryImage{URL: mediaURL(mediaBaseURL, img.URL), Alt: alt})
	}
	if len(out) == 0 {
		out = append(out, GalleryImage{URL: PlaceholderImage, Alt: alt})
	}
	return out
}

func mediaURL(base, file string) string {
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		return file
	}
	if base == "" {
		return file
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(file, "/")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
