package domain

import "time"

// Product is a catalog record. The identifier is assigned by the store at
// insert time and never changes afterwards.
type Product struct {
	ID        string
	Name      string
	Value     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
