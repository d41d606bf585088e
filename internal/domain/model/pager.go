//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Pager tracks the current page against the server's page count.
// Total of zero means the count is not known yet.
type Pager struct {
	Current int
	Total   int
}

// NewPager builds a pager with Current clamped into range.
func NewPager(current, total int) Pager {
	p := Pager{Current: current, Total: total}
	p.Current = p.Clamp(current)
	return p
}

// Clamp bounds page to [1, Total], or to >= 1 while Total is unknown.
func (p Pager) Clamp(page int) int {
	if page < 1 {
		page = 1
	}
	if p.Total > 0 && page > p.Total {
		page = p.Total
	}
	return page
}

// HasNext reports whether a next page exists.
func (p Pager) HasNext() bool { return p.Current < p.Total }

// HasPrevious reports whether a previous page exists.
func (p Pager) HasPrevious() bool { return p.Current > 1 }

// Next returns the page after Current, or Current when already on the last page.
func (p Pager) Next() int {
	if p.HasNext() {
		return p.Current + 1
	}
	return p.Current
}

// Previous returns the page before Current, or Current when on the first page.
func (p Pager) Previous() int {
	if p.HasPrevious() {
		return p.Current - 1
	}
	return p.Current
}
