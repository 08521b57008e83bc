package model

import "time"

// Region is a top-level geographic grouping of villages
type Region struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Villages []Village `db:"-" json:"villages"`
}

// RegionCreateRequest is the payload for POST /api/regions
type RegionCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// RegionUpdateRequest is the payload for PUT /api/regions/:id
type RegionUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}
