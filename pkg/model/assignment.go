package model

import (
	"time"

	"github.com/lib/pq"
)

// Assignment statuses
const (
	AssignmentActive    = "active"
	AssignmentCompleted = "completed"
	AssignmentPaused    = "paused"
)

// Assignment links a user to a village for a bounded period
type Assignment struct {
	ID        string         `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"userId"`
	RegionID  string         `db:"region_id" json:"regionId"`
	VillageID string         `db:"village_id" json:"villageId"`
	StartDate time.Time      `db:"start_date" json:"startDate"`
	EndDate   time.Time      `db:"end_date" json:"endDate"`
	Tasks     pq.StringArray `db:"tasks" json:"tasks"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`

	User    *User    `db:"-" json:"user,omitempty"`
	Region  *Region  `db:"-" json:"region,omitempty"`
	Village *Village `db:"-" json:"village,omitempty"`
}

// AssignmentCreateRequest is the payload for POST /api/assignments.
// Dates accept RFC 3339 or YYYY-MM-DD.
type AssignmentCreateRequest struct {
	UserID    string   `json:"userId" binding:"required"`
	RegionID  string   `json:"regionId" binding:"required"`
	VillageID string   `json:"villageId" binding:"required"`
	StartDate string   `json:"startDate" binding:"required"`
	EndDate   string   `json:"endDate" binding:"required"`
	Tasks     []string `json:"tasks"`
	Status    string   `json:"status" binding:"omitempty,oneof=active completed paused"`
}

// AssignmentUpdateRequest is the payload for PUT /api/assignments/:id
type AssignmentUpdateRequest struct {
	UserID    *string   `json:"userId" binding:"omitempty,min=1"`
	RegionID  *string   `json:"regionId" binding:"omitempty,min=1"`
	VillageID *string   `json:"villageId" binding:"omitempty,min=1"`
	StartDate *string   `json:"startDate" binding:"omitempty,min=1"`
	EndDate   *string   `json:"endDate" binding:"omitempty,min=1"`
	Tasks     *[]string `json:"tasks"`
	Status    *string   `json:"status" binding:"omitempty,oneof=active completed paused"`
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate accepts the date formats clients send for assignments
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
