package entity

import "time"

// Product producto o SKU almacenable.
type Product struct {
	ID          string
	SKU         string // único
	Name        string
	Description string
	Category    string
	UnitMeasure string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
