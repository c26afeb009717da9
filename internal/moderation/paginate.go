package moderation

import "math"

const DefaultPageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func TotalPages(count, size int) int {
	if size < 1 || count <= 0 {
		return 0
	}
	pages := count / size
	if count%size != 0 {
		pages++
	}
	return pages
}

// NormalizePage clamps page to >= 1 and falls back to fallback for a bad size.
// page is also capped so that (page-1)*size cannot overflow.
func NormalizePage(page, size, fallback int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = fallback
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return page, size
}

// Paginate slices an already filtered list.
func Paginate[T any](items []T, page, size int) Page[T] {
	page, size = NormalizePage(page, size, DefaultPageSize)
	total := len(items)
	start := total
	if page-1 < TotalPages(total, size) {
		start = (page - 1) * size
	}
	end := total
	if size < total-start {
		end = start + size
	}
	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		Limit:      size,
		Total:      total,
		TotalPages: TotalPages(total, size),
	}
}
