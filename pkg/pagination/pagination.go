package pagination

// Offset pagination for the listing endpoints. Out-of-range values are
// clamped, never rejected: page floors at 1 and limit caps at MaxLimit.
const (
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 20
)

// Params holds normalized pagination inputs.
type Params struct {
	Page  int
	Limit int
}

// Meta is the pagination envelope returned alongside every page.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Normalize clamps raw page/limit values into a valid Params.
func Normalize(page, limit int) Params {
	return Params{
		Page:  NormalizePage(page),
		Limit: NormalizeLimit(limit),
	}
}

// NormalizePage floors the page number at 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeLimit enforces the default and maximum page sizes.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MetaFor computes the envelope for a total row count.
func (p Params) MetaFor(totalCount int64) Meta {
	totalPages := int((totalCount + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
