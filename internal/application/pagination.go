package application

import (
	"time"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
)

// maxPage keeps (page-1)*perPage far away from overflow.
const maxPage = 1_000_000

// Page is the list envelope returned by UserService.List.
type Page struct {
	CurrentPage int           `json:"current_page"`
	Data        []entity.User `json:"data"`
	Total       int64         `json:"total"`
	PerPage     int           `json:"per_page"`
	LastPage    int           `json:"last_page"`
	From        *int64        `json:"from"`
	To          *int64        `json:"to"`
}

// ListOptions bounds and caches the list operation.
type ListOptions struct {
	DefaultPerPage    int
	MaxPerPage        int
	InvalidateOnWrite bool
	TTL               time.Duration
}

// NormalizePage clamps untrusted page/perPage into [1, maxPage] and [1, MaxPerPage].
func (o ListOptions) NormalizePage(page, perPage int) (int, int) {
	def := o.DefaultPerPage
	if def <= 0 {
		def = 10
	}
	limit := o.MaxPerPage
	if limit <= 0 {
		limit = 100
	}
	if def > limit {
		def = limit
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if perPage < 1 {
		perPage = def
	}
	if perPage > limit {
		perPage = limit
	}
	return page, perPage
}

func newPage(users []entity.User, total int64, page, perPage int) *Page {
	if users == nil {
		users = []entity.User{}
	}
	last := int((total + int64(perPage) - 1) / int64(perPage))
	if last < 1 {
		last = 1
	}
	p := &Page{
		CurrentPage: page,
		Data:        users,
		Total:       total,
		PerPage:     perPage,
		LastPage:    last,
	}
	if n := len(users); n > 0 {
		from := int64(page-1)*int64(perPage) + 1
		to := from + int64(n) - 1
		p.From, p.To = &from, &to
	}
	return p
}
