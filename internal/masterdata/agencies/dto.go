package agencies

// AgencyForm is the create/update payload.
type AgencyForm struct {
	Name     string  `json:"name" validate:"required"`
	Phone    string  `json:"phone"`
	Address  string  `json:"address"`
	GroupID  *string `json:"group_id" validate:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
}
