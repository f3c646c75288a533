package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeta-be/internal/cart"
)

const media = "https://cdn.example.com/media/product/"

func TestToCard(t *testing.T) {
	t.Run("Discounted with displayed image", func(t *testing.T) {
		v := variant("v1", 80, was(100))
		v.ProductName = "Air Max"
		v.SKU = "AM-90"
		v.Images = []VariantImage{{URL: "first.jpg"}, {URL: "/main.jpg", Displayed: true}}

		card := ToCard(v, media)

		assert.Equal(t, "air-max-am-90", card.Slug)
		assert.Equal(t, 80.0, card.Price)
		require.NotNil(t, card.OldPrice)
		assert.Equal(t, 100.0, *card.OldPrice)
		assert.Equal(t, DisplayCurrency, card.Currency)
		assert.Equal(t, "https://cdn.example.com/media/product/main.jpg", card.Image)
	})

	t.Run("Full price without images", func(t *testing.T) {
		card := ToCard(variant("v2", 50), media)
		assert.Nil(t, card.OldPrice)
		assert.Equal(t, PlaceholderImage, card.Image)
		assert.Equal(t, "patika-v2-v2", card.Slug)
	})
}

func detailsFixture() VariantDetails {
	v := variant("v1", 90, was(120), brand("Nike"))
	v.ProductID = "p1"
	v.ProductName = "Pegasus"
	v.SKU = "PG-1"
	v.Attributes = []VariantAttribute{
		{AttributeName: SizeAttribute, Value: "44", Quantity: 0},
		{AttributeName: SizeAttribute, Value: "42", Quantity: 2},
		{AttributeName: SizeAttribute, Value: " ", Quantity: 9},
		{AttributeName: "BOJA", Value: "crna", Quantity: 1},
	}
	v.Images = []VariantImage{{URL: "b.jpg"}, {URL: "a.jpg", Displayed: true}}
	return VariantDetails{Variant: v}
}

func TestToDetails(t *testing.T) {
	d := ToDetails(detailsFixture(), "v1", media)

	assert.Equal(t, "Pegasus", d.Name)
	assert.Equal(t, []string{"42", "44"}, d.Sizes)
	assert.Equal(t, map[string]int{"42": 2, "44": 0}, d.SizeStock)
	assert.True(t, d.InStock)
	assert.Equal(t, "Nike", d.Brand)
	assert.Equal(t, DisplayCurrency, d.Currency)
	require.Len(t, d.Gallery, 2)
	assert.Equal(t, media+"a.jpg", d.Gallery[0].URL)

	pct, ok := d.PercentOff()
	assert.True(t, ok)
	assert.Equal(t, "25%", pct)

	t.Run("Fallbacks", func(t *testing.T) {
		d := ToDetails(VariantDetails{}, "v9", "")
		assert.Equal(t, "v9", d.ID)
		assert.Equal(t, "Proizvod", d.Name)
		assert.Equal(t, "—", d.Brand)
		assert.False(t, d.InStock)
		assert.Equal(t, PlaceholderImage, d.Gallery[0].URL)
		_, ok := d.PercentOff()
		assert.False(t, ok)
	})
}

func TestProductDetails_CartLine(t *testing.T) {
	d := ToDetails(detailsFixture(), "v1", media)

	t.Run("Size required", func(t *testing.T) {
		_, err := d.CartLine("")
		assert.ErrorIs(t, err, ErrSizeRequired)
	})

	t.Run("Size out of stock", func(t *testing.T) {
		_, err := d.CartLine("44")
		assert.ErrorIs(t, err, ErrOutOfStock)

		_, err = d.CartLine("50")
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("Sized line", func(t *testing.T) {
		line, err := d.CartLine("42")
		require.NoError(t, err)
		assert.Equal(t, "v1::42", line.ID)
		assert.Equal(t, "p1", line.ProductID)
		require.NotNil(t, line.Size)
		assert.Equal(t, "42", *line.Size)
		assert.Equal(t, 1, line.Qty)
		assert.Equal(t, "90", line.UnitPrice.Amount.String())
		assert.Equal(t, DisplayCurrency, line.UnitPrice.Currency)
		assert.Equal(t, &cart.Image{URL: media + "a.jpg", Alt: "Pegasus"}, line.Image)
	})

	t.Run("Unsized product uses variant stock", func(t *testing.T) {
		plain := ToDetails(VariantDetails{Variant: variant("v2", 10)}, "v2", media)
		line, err := plain.CartLine("")
		require.NoError(t, err)
		assert.Equal(t, "v2", line.ID)
		assert.Nil(t, line.Size)

		empty := ToDetails(VariantDetails{Variant: variant("v3", 10, stock(0))}, "v3", media)
		_, err = empty.CartLine("")
		assert.ErrorIs(t, err, ErrOutOfStock)
	})
}
