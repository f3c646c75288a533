package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterState_ChangesResetPage(t *testing.T) {
	changes := map[string]func(*FilterState){
		"sort":        func(f *FilterState) { f.SetSort(SortPriceAsc) },
		"in stock":    func(f *FilterState) { f.SetInStock(true) },
		"sale":        func(f *FilterState) { f.SetSale(true) },
		"brand":       func(f *FilterState) { f.ToggleBrand("Nike") },
		"size":        func(f *FilterState) { f.ToggleSize("42") },
		"price":       func(f *FilterState) { f.ApplyPrice("10", "20") },
		"clear price": func(f *FilterState) { f.ClearPrice() },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			f := NewFilterState()
			f.GoPage(4, 5)
			assert.Equal(t, 4, f.Page)

			change(&f)
			assert.Equal(t, 1, f.Page)
		})
	}
}

func TestFilterState_Toggle(t *testing.T) {
	f := NewFilterState()
	f.ToggleBrand("Nike")
	f.ToggleBrand("adidas")
	assert.Equal(t, []string{"adidas", "Nike"}, f.SelectedBrands())

	f.ToggleBrand("Nike")
	assert.Equal(t, []string{"adidas"}, f.SelectedBrands())

	f.ToggleSize("XL")
	f.ToggleSize("44")
	f.ToggleSize("38.5")
	assert.Equal(t, []string{"38.5", "44", "XL"}, f.SelectedSizes())
}

func TestFilterState_CloneIsIndependent(t *testing.T) {
	f := NewFilterState()
	f.ToggleBrand("Nike")
	f.ApplyPrice("5", "")

	c := f.Clone()
	c.ToggleBrand("Puma")
	*c.MinPrice = 99

	assert.Equal(t, []string{"Nike"}, f.SelectedBrands())
	assert.Equal(t, 5.0, *f.MinPrice)
}

func TestFilterState_Reset(t *testing.T) {
	f := NewFilterState()
	f.PageSize = 48
	f.SetSort(SortPriceDesc)
	f.SetSale(true)
	f.ToggleSize("42")
	f.ApplyPrice("1", "2")
	f.GoPage(2, 3)

	f.Reset()

	assert.Equal(t, SortNewest, f.Sort)
	assert.False(t, f.OnlySale)
	assert.Empty(t, f.Sizes)
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 48, f.PageSize)
}

func TestFilterState_GoPage(t *testing.T) {
	f := NewFilterState()
	f.GoPage(0, 3)
	assert.Equal(t, 1, f.Page)
	f.GoPage(7, 3)
	assert.Equal(t, 3, f.Page)
	f.GoPage(2, 0)
	assert.Equal(t, 1, f.Page)
}
