package core

// Pagination carries the offset-based, 1-indexed paging window applied to
// list queries.
type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (p *Pagination) Clean() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages is ceil(count / limit).
func (p Pagination) TotalPages(count int64) int {
	pages := int(count) / p.Limit
	if int(count)%p.Limit != 0 {
		pages++
	}
	return pages
}
