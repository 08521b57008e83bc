package model

import "time"

// Village is a geographic unit within a region
type Village struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	RegionID    string    `db:"region_id" json:"regionId"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Region      *Region      `db:"-" json:"region,omitempty"`
	Vendors     []Vendor     `db:"-" json:"vendors"`
	Assignments []Assignment `db:"-" json:"assignments"`
}

// VillageCreateRequest is the payload for POST /api/villages
type VillageCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	RegionID    string `json:"regionId" binding:"required"`
	Description string `json:"description"`
}

// VillageUpdateRequest is the payload for PUT /api/villages/:id
type VillageUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	RegionID    *string `json:"regionId" binding:"omitempty,min=1"`
	Description *string `json:"description"`
}
