package model

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type Paging struct {
	Page  int
	Limit int
}

// Normalize applies defaults and bounds.
func (p Paging) Normalize() Paging {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.Limit
}

func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
