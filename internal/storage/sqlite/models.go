package sqlite

import "time"

// recordRow is one row of the airport_records table
type recordRow struct {
	Code      string    `json:"code"`
	Record    string    `json:"record"` // JSON object of field -> value
	UpdatedAt time.Time `json:"updated_at"`
}
