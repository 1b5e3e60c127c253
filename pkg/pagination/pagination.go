package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 20
	// MaxPerPage caps how many rows a single page can request.
	MaxPerPage = 100
)

// Page holds normalized offset pagination inputs.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the raw page and per_page values into a valid Page.
func Normalize(page, perPage int) Page {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Number: page, PerPage: perPage}
}

// Offset returns the number of rows preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// FirstSerial is the absolute 1-based serial number of the page's first row.
// Serial numbers continue across pages so the frontend can identify rows.
func (p Page) FirstSerial() int {
	return p.Offset() + 1
}

// Bounds returns the [start, end) slice window for a sequence of the given
// total length. An out-of-range page yields an empty window.
func (p Page) Bounds(total int) (int, int) {
	start := p.Offset()
	if start >= total {
		return 0, 0
	}
	end := start + p.PerPage
	if end > total {
		end = total
	}
	return start, end
}
