package model

import (
	"time"

	"github.com/lib/pq"
)

// Vendor is an artisan tied to a village
type Vendor struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	RegionID    string         `db:"region_id" json:"regionId"`
	VillageID   string         `db:"village_id" json:"villageId"`
	Categories  pq.StringArray `db:"categories" json:"categories"`
	IsStay      bool           `db:"is_stay" json:"isStay"`
	Summary     string         `db:"summary" json:"summary"`
	Phone       string         `db:"phone" json:"phone"`
	Story       string         `db:"story" json:"story"`
	StoryImages pq.StringArray `db:"story_images" json:"storyImages"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`

	Village *Village `db:"-" json:"village,omitempty"`
	Region  *Region  `db:"-" json:"region,omitempty"`
}

// VendorCreateRequest is the payload for POST /api/vendors
type VendorCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	RegionID    string   `json:"regionId" binding:"required"`
	VillageID   string   `json:"villageId" binding:"required"`
	Categories  []string `json:"categories"`
	IsStay      bool     `json:"isStay"`
	Summary     string   `json:"summary"`
	Phone       string   `json:"phone" binding:"required"`
	Story       string   `json:"story"`
	StoryImages []string `json:"storyImages"`
}

// VendorUpdateRequest is the payload for PUT /api/vendors/:id
type VendorUpdateRequest struct {
	Name        *string   `json:"name" binding:"omitempty,min=1"`
	RegionID    *string   `json:"regionId" binding:"omitempty,min=1"`
	VillageID   *string   `json:"villageId" binding:"omitempty,min=1"`
	Categories  *[]string `json:"categories"`
	IsStay      *bool     `json:"isStay"`
	Summary     *string   `json:"summary"`
	Phone       *string   `json:"phone" binding:"omitempty,min=1"`
	Story       *string   `json:"story"`
	StoryImages *[]string `json:"storyImages"`
}
