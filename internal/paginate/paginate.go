// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Aleksei Sviridkin

// Package paginate slices a result set into fixed-size pages and decides
// which page buttons a pager should display.
package paginate

// DefaultPageSize is the number of games shown per page.
const DefaultPageSize = 40

// Page-button caps by viewport class.
const (
	NarrowButtonCap = 5
	WideButtonCap   = 8

	// NarrowViewportWidth is the first width, in CSS pixels, that is not narrow.
	NarrowViewportWidth = 768
)

// Page is one slice of a paginated collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"number"`
	TotalPages int `json:"totalPages"`
	TotalItems int `json:"totalItems"`
}

// TotalPages returns ceil(count/pageSize), or 0 for an empty collection.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}

	return (count + pageSize - 1) / pageSize
}

// Paginate returns page number `page` (1-based) of items. Pages outside the
// collection are empty rather than an error.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	out := Page[T]{
		Items:      []T{},
		Number:     page,
		TotalPages: TotalPages(len(items), pageSize),
		TotalItems: len(items),
	}

	if page < 1 || pageSize <= 0 {
		return out
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return out
	}

	end := min(start+pageSize, len(items))
	out.Items = items[start:end]

	return out
}

// ButtonCap returns the page-button cap for a viewport width. Zero width
// means unknown and is treated as wide.
func ButtonCap(viewportWidth int) int {
	if viewportWidth > 0 && viewportWidth < NarrowViewportWidth {
		return NarrowButtonCap
	}

	return WideButtonCap
}

// ShouldShowPage reports whether the button for page n is visible. Page 1 is
// always shown; every page is shown while total fits the cap; otherwise only
// pages within cap/2 of the current page are shown. The window is not shifted
// near the last page.
func ShouldShowPage(n, current, total, buttonCap int) bool {
	if n == 1 {
		return true
	}

	if total <= buttonCap {
		return true
	}

	half := buttonCap / 2
	diff := n - current

	return diff >= -half && diff <= half
}

// VisiblePages lists the page numbers for which ShouldShowPage holds.
func VisiblePages(current, total, buttonCap int) []int {
	pages := make([]int, 0, max(0, min(total, buttonCap+1)))

	for n := 1; n <= total; n++ {
		if ShouldShowPage(n, current, total, buttonCap) {
			pages = append(pages, n)
		}
	}

	return pages
}
