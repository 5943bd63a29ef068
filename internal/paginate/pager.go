// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

package paginate

// Pager holds the current page of a session. The total page count is
// supplied by the caller on every navigation because it is derived from the
// live filter result.
type Pager struct {
	current  int
	pageSize int

	// OnNavigate fires after every successful page change. The browser uses
	// it to request a smooth scroll to the top of the listing.
	OnNavigate func(page int)
}

// NewPager returns a pager positioned on page 1.
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Pager{current: 1, pageSize: pageSize}
}

// Current returns the current page clamped to 1..max(1, total).
func (p *Pager) Current(total int) int {
	return min(max(p.current, 1), max(total, 1))
}

// PageSize returns the number of items per page.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Reset moves back to page 1 without firing OnNavigate.
func (p *Pager) Reset() {
	p.current = 1
}

// GoToPage moves to page n. It is a no-op, returning false, when n is
// outside 1..total.
func (p *Pager) GoToPage(n, total int) bool {
	if n < 1 || n > total {
		return false
	}

	p.current = n

	if p.OnNavigate != nil {
		p.OnNavigate(n)
	}

	return true
}

// NextPage advances one page when possible.
func (p *Pager) NextPage(total int) bool {
	return p.GoToPage(p.Current(total)+1, total)
}

// PrevPage goes back one page when possible.
func (p *Pager) PrevPage(total int) bool {
	return p.GoToPage(p.Current(total)-1, total)
}
