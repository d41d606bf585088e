//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Category is the fixed expense classification key sent to the refund API.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryOthers        Category = "others"
	CategoryServices      Category = "services"
	CategoryTransport     Category = "transport"
	CategoryAccommodation Category = "accommodation"
)

// CategoryInfo carries the display name and icon path of a category.
type CategoryInfo struct {
	Key  Category
	Name string
	Icon string
}

var categoryCatalog = []CategoryInfo{
	{Key: CategoryFood, Name: "Alimentação", Icon: "img/categories/food.svg"},
	{Key: CategoryOthers, Name: "Outros", Icon: "img/categories/others.svg"},
	{Key: CategoryServices, Name: "Serviços", Icon: "img/categories/services.svg"},
	{Key: CategoryTransport, Name: "Transporte", Icon: "img/categories/transport.svg"},
	{Key: CategoryAccommodation, Name: "Hospedagem", Icon: "img/categories/accommodation.svg"},
}

// Categories returns the catalog in display order. The slice is a copy.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categoryCatalog))
	copy(out, categoryCatalog)
	return out
}

// Lookup returns the catalog entry for c.
func (c Category) Lookup() (CategoryInfo, bool) {
	for _, info := range categoryCatalog {
		if info.Key == c {
			return info, true
		}
	}
	return CategoryInfo{}, false
}

// Valid reports whether c belongs to the catalog.
func (c Category) Valid() bool {
	_, ok := c.Lookup()
	return ok
}

// Info returns the catalog entry for c, or a generic entry for keys
// the API knows about but this UI does not.
func (c Category) Info() CategoryInfo {
	if info, ok := c.Lookup(); ok {
		return info
	}
	return CategoryInfo{Key: c, Name: string(c), Icon: "img/categories/others.svg"}
}
