package commissions

import "time"

// Rate holds the commission configuration for one lottery system.
// Percentages are expressed in 0..100.
type Rate struct {
	ID                      string    `json:"id"`
	LotterySystemID         string    `json:"lottery_system_id"`
	CommissionPercentage    float64   `json:"commission_percentage"`
	CommissionPercentageUsd float64   `json:"commission_percentage_usd"`
	UtilityPercentage       float64   `json:"utility_percentage"`
	UtilityPercentageUsd    float64   `json:"utility_percentage_usd"`
	IsActive                bool      `json:"is_active"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
