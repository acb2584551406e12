package pricing

// SortOrder selects ascending or descending ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) direction() string {
	if o == SortDesc {
		return "DESC"
	}
	return "ASC"
}

// ListSortKey names the sortable columns of the current-price listing.
type ListSortKey string

const (
	SortByRegistrar ListSortKey = "registrar"
	SortByExtension ListSortKey = "extension"
	SortByPrice     ListSortKey = "price"
)

func (k ListSortKey) column() string {
	switch k {
	case SortByExtension:
		return "e.name"
	case SortByPrice:
		return "p.registration_price"
	default:
		return "r.name"
	}
}

// CheapestSortKey names the sortable columns of the cheapest-per-extension
// listing. The public parameter for the extension column is "tld".
type CheapestSortKey string

const (
	CheapestByTLD       CheapestSortKey = "tld"
	CheapestByRegistrar CheapestSortKey = "registrar"
	CheapestByPrice     CheapestSortKey = "price"
)

func (k CheapestSortKey) column() string {
	switch k {
	case CheapestByRegistrar:
		return "r.name"
	case CheapestByPrice:
		return "p.registration_price"
	default:
		return "e.name"
	}
}

// ListPricesInput captures the filter/sort/page knobs of the price listing.
// RegistrarContains is a case-insensitive substring match; ExtensionName is an
// exact match after canonicalization (a missing leading dot is added).
type ListPricesInput struct {
	RegistrarContains string
	ExtensionName     string
	Page              int
	Limit             int
	SortBy            ListSortKey
	SortOrder         SortOrder
}

// ListCheapestInput captures the knobs of the cheapest-per-extension listing.
// ExtensionContains is a case-insensitive substring match.
type ListCheapestInput struct {
	ExtensionContains string
	Page              int
	Limit             int
	SortBy            CheapestSortKey
	SortOrder         SortOrder
}
