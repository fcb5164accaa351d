package domain

import "fmt"

// Page is a server-paginated slice of a collection. The JSON shape follows
// the Spring Data page envelope returned by the backend.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
	Empty         bool  `json:"empty"`
}

// Validate checks the page index and content length invariants.
func (p Page[T]) Validate() error {
	if p.TotalPages < 0 {
		return fmt.Errorf("negative total pages %d", p.TotalPages)
	}
	if p.TotalPages > 0 && (p.Number < 0 || p.Number >= p.TotalPages) {
		return fmt.Errorf("page number %d out of range [0,%d)", p.Number, p.TotalPages)
	}
	if p.Size > 0 && len(p.Content) > p.Size {
		return fmt.Errorf("page holds %d items, size is %d", len(p.Content), p.Size)
	}
	return nil
}
