package catalog

import "errors"

var (
	// -- Route resolution --
	ErrMissingRouteCategories = errors.New("catalog: POL/KATEGORIJA category id not found")
	ErrUnknownRoute           = errors.New("catalog: unknown gender/category route")

	// -- Search --
	ErrSearchFailed = errors.New("catalog: search failed")
	ErrSuperseded   = errors.New("catalog: load superseded by a newer route")

	// -- Product details --
	ErrProductNotFound = errors.New("catalog: product not found")
	ErrSizeRequired    = errors.New("catalog: size must be selected")
	ErrOutOfStock      = errors.New("catalog: selected size is out of stock")
)

var localized = []struct {
	err error
	msg string
}{
	{ErrMissingRouteCategories, "Nedostaje POL/KATEGORIJA ID."},
	{ErrUnknownRoute, "Nepoznata ruta (gender/category)."},
	{ErrSearchFailed, "Search nije uspeo."},
	{ErrProductNotFound, "Proizvod nije pronađen."},
	{ErrSizeRequired, "Izaberite veličinu."},
	{ErrOutOfStock, "Izabrana veličina nije na stanju."},
}

// Message returns the user-facing text for a catalog error. Unknown errors
// return their own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, l := range localized {
		if errors.Is(err, l.err) {
			return l.msg
		}
	}
	return err.Error()
}
