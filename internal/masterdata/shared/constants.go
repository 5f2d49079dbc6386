package shared

const (
	// Default pagination
	DefaultPage  = 1
	DefaultLimit = 25

	// Sort directions
	SortAsc  = "asc"
	SortDesc = "desc"
)
