package catalog

// Facet names used by the backend's category and attribute lists.
const (
	BrandCategory  = "BREND"
	SizeAttribute  = "VELICINA"
	GenderCategory = "POL"
	TypeCategory   = "KATEGORIJA"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CategoryValue struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type VariantCategory struct {
	CategoryID      string `json:"categoryId"`
	CategoryName    string `json:"categoryName"`
	CategoryValueID string `json:"categoryValueId"`
	Value           string `json:"value"`
}

type VariantAttribute struct {
	AttributeID      string `json:"attributeId"`
	AttributeName    string `json:"attributeName"`
	AttributeValueID string `json:"attributeValueId"`
	Quantity         int    `json:"quantity"`
	Value            string `json:"value"`
}

type VariantImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Displayed bool   `json:"displayed"`
}

type RelatedProduct struct {
	ID           string `json:"id"`
	MainImageURL string `json:"mainImageUrl"`
}

// Variant is one purchasable product variant as returned by search. It is
// read-only; a new search replaces the whole list.
type Variant struct {
	ID                 string             `json:"id"`
	ProductID          string             `json:"productId"`
	ProductName        string             `json:"productName"`
	ProductDescription string             `json:"productDescription"`
	ProductSKU         string             `json:"productSku"`
	SKU                string             `json:"sku"`
	OriginalPrice      float64            `json:"originalPrice"`
	FinalPrice         float64            `json:"finalPrice"`
	DiscountPrice      float64            `json:"discountPrice"`
	Quantity           int                `json:"quantity"`
	Categories         []VariantCategory  `json:"categories"`
	Attributes         []VariantAttribute `json:"attributes"`
	Images             []VariantImage     `json:"images"`
	RelatedProducts    []RelatedProduct   `json:"relatedProducts"`
	Outlet             bool               `json:"outlet"`
	New                bool               `json:"new"`
}

// VariantDetails is the payload of the variant details endpoint. Brand,
// Currency and ShortDescription are optional overrides.
type VariantDetails struct {
	Variant
	Brand            string `json:"brand,omitempty"`
	Currency         string `json:"currency,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`
}

type AggregateValue struct {
	ID              string `json:"id"`
	Value           string `json:"value"`
	Count           int    `json:"count"`
	AlreadySelected bool   `json:"alreadySelected"`
}

// Aggregate is a server-computed facet with per-value counts.
type Aggregate struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Values []AggregateValue `json:"values"`
}

type PriceRange struct {
	FilterName string  `json:"filterName"`
	MinPrice   float64 `json:"minPrice"`
	MaxPrice   float64 `json:"maxPrice"`
}

type FlagAggregate struct {
	AlreadySelected bool   `json:"alreadySelected"`
	Name            string `json:"name"`
	Count           int    `json:"count"`
}

type SearchRequest struct {
	InitialCategoryFilters map[string][]string `json:"initialCategoryFilters,omitempty"`
}

type SearchResponse struct {
	Variants            []Variant      `json:"variants"`
	AvailableCategories []Aggregate    `json:"availableCategories"`
	AvailableAttributes []Aggregate    `json:"availableAttributes"`
	PriceRange          *PriceRange    `json:"priceRange,omitempty"`
	NewProducts         *FlagAggregate `json:"newProducts,omitempty"`
	TotalResults        int            `json:"totalResults"`
}

// CategoryValueOf returns the value of the first category named name
// (case-insensitive), or "" when the variant has none.
func (v Variant) CategoryValueOf(name string) string {
	for _, c := range v.Categories {
		if equalFold(c.CategoryName, name) {
			return c.Value
		}
	}
	return ""
}

// AttributeValues returns the non-empty values of every attribute named name
// (case-insensitive).
func (v Variant) AttributeValues(name string) []string {
	var out []string
	for _, a := range v.Attributes {
		if equalFold(a.AttributeName, name) && a.Value != "" {
			out = append(out, a.Value)
		}
	}
	return out
}

// Brand is the BREND category value.
func (v Variant) Brand() string {
	return v.CategoryValueOf(BrandCategory)
}

// Sizes are the VELICINA attribute values.
func (v Variant) Sizes() []string {
	return v.AttributeValues(SizeAttribute)
}

// OnSale reports a discount price or a final price below the original.
func (v Variant) OnSale() bool {
	return v.DiscountPrice > 0 || v.FinalPrice < v.OriginalPrice
}

func (v Variant) InStock() bool {
	return v.Quantity > 0
}
