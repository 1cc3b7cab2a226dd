package kernel

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginationOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Normalize clamps page and size to usable values
func (p PaginationOptions) Normalize() PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PaginationOptions) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type Page struct {
	Number int `json:"number"`
	Size   int `json:"size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"page"`
	Empty bool `json:"empty"`
}

func NewPaginated[T any](items []T, opts PaginationOptions, total int) *Paginated[T] {
	if items == nil {
		items = make([]T, 0)
	}
	pages := 0
	if opts.PageSize > 0 {
		pages = (total + opts.PageSize - 1) / opts.PageSize
	}
	return &Paginated[T]{
		Items: items,
		Page: Page{
			Number: opts.Page,
			Size:   opts.PageSize,
			Total:  total,
			Pages:  pages,
		},
		Empty: len(items) == 0,
	}
}

// MapPaginated converts the items of a page, keeping the page metadata
func MapPaginated[T, U any](in *Paginated[T], fn func(T) U) *Paginated[U] {
	out := make([]U, 0, len(in.Items))
	for _, item := range in.Items {
		out = append(out, fn(item))
	}
	return &Paginated[U]{Items: out, Page: in.Page, Empty: in.Empty}
}
