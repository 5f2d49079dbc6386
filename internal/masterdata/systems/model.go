package systems

import "time"

// System is a lottery system sold at the agencies. A system with
// HasSubcategories groups child systems; weekly detail rows are always
// written against leaf systems so a parent is never counted twice.
type System struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	ParentSystemID   *string   `json:"parent_system_id"`
	HasSubcategories bool      `json:"has_subcategories"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
