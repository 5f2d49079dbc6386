package shared

// ListFilters represents standard list filters shared by the CRUD verticals.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	IsActive *bool

	// Entity specific filters
	AgencyID *string
	GroupID  *string
}
