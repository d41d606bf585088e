package viewmodel

import "github.com/target/refund-ui/internal/domain/model"

// Pagination drives the pagination partial. PrevURL and NextURL are empty
// when the corresponding control is disabled.
type Pagination struct {
	Current int
	Total   int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

// NewPagination projects a pager. link builds the URL for a target page.
func NewPagination(p model.Pager, link func(page int) string) Pagination {
	vm := Pagination{
		Current: p.Current,
		Total:   p.Total,
		HasPrev: p.HasPrevious(),
		HasNext: p.HasNext(),
	}
	if link == nil {
		return vm
	}
	if vm.HasPrev {
		vm.PrevURL = link(p.Previous())
	}
	if vm.HasNext {
		vm.NextURL = link(p.Next())
	}
	return vm
}
