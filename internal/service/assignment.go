package service

import (
	"context"
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// AssignmentService handles assignment persistence
type AssignmentService struct {
	db     *sqlx.DB
	opts   Options
	logger *zap.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(db *sqlx.DB, opts Options, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// Create inserts an assignment after checking every reference exists and agrees
func (s *AssignmentService) Create(ctx context.Context, req model.AssignmentCreateRequest) (*model.Assignment, error) {
	start, end, err := parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = model.AssignmentActive
	}
	if !validStatus(status) {
		return nil, apperr.NewBadRequest("status must be one of active, completed, paused")
	}

	var assignment model.Assignment
	err = withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		user, village, region, err := s.references(ctx, tx, req.UserID, req.RegionID, req.VillageID)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &assignment, `
            INSERT INTO assignments (id, user_id, region_id, village_id, start_date, end_date, tasks, status, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
            RETURNING `+assignmentColumns,
			uuid.NewString(), user.ID, region.ID, village.ID, start, end,
			pq.StringArray(stringsOrEmpty(req.Tasks)), status)
		if err != nil {
			return err
		}
		assignment.User = user
		assignment.Region = region
		assignment.Village = village
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Assignment not found"), "Error creating assignment")
	}

	s.logger.Info("Assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("user_id", assignment.UserID),
		zap.String("village_id", assignment.VillageID),
	)
	return &assignment, nil
}

// List returns every assignment with user, region and village
func (s *AssignmentService) List(ctx context.Context) ([]model.Assignment, error) {
	assignments := []model.Assignment{}
	if err := s.db.SelectContext(ctx, &assignments, "SELECT "+assignmentColumns+" FROM assignments ORDER BY created_at, id"); err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignments")
	}
	if err := attachAssignmentRelations(ctx, s.db, assignments); err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignments")
	}
	return assignments, nil
}

// ListByUser returns a user's assignments ordered by start date
func (s *AssignmentService) ListByUser(ctx context.Context, userID string) ([]model.Assignment, error) {
	if _, err := getUser(ctx, s.db, userID, noLock); err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignments")
	}
	assignments := []model.Assignment{}
	err := s.db.SelectContext(ctx, &assignments,
		"SELECT "+assignmentColumns+" FROM assignments WHERE user_id = $1 ORDER BY start_date ASC", userID)
	if err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignments")
	}
	if err := attachAssignmentRelations(ctx, s.db, assignments); err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignments")
	}
	return assignments, nil
}

// Get returns one assignment with relations
func (s *AssignmentService) Get(ctx context.Context, id string) (*model.Assignment, error) {
	assignment, err := s.get(ctx, s.db, id, noLock)
	if err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignment")
	}
	assignments := []model.Assignment{*assignment}
	if err := attachAssignmentRelations(ctx, s.db, assignments); err != nil {
		return nil, apperr.Wrap(err, "Error fetching assignment")
	}
	return &assignments[0], nil
}

// Update overwrites the provided fields. The merged record must still satisfy
// every reference and date rule.
func (s *AssignmentService) Update(ctx context.Context, id string, req model.AssignmentUpdateRequest) (*model.Assignment, error) {
	var assignment model.Assignment
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		current, err := s.get(ctx, tx, id, lockUpdate)
		if err != nil {
			return err
		}

		var b updateBuilder

		start, end := current.StartDate, current.EndDate
		if req.StartDate != nil {
			t, ok := model.ParseDate(*req.StartDate)
			if !ok {
				return apperr.NewBadRequest("startDate must be RFC 3339 or YYYY-MM-DD")
			}
			start = t
			b.set("start_date", start)
		}
		if req.EndDate != nil {
			t, ok := model.ParseDate(*req.EndDate)
			if !ok {
				return apperr.NewBadRequest("endDate must be RFC 3339 or YYYY-MM-DD")
			}
			end = t
			b.set("end_date", end)
		}
		if start.After(end) {
			return apperr.NewBadRequest("startDate must not be after endDate")
		}

		userID, regionID, villageID := current.UserID, current.RegionID, current.VillageID
		if req.UserID != nil {
			userID = *req.UserID
		}
		if req.RegionID != nil {
			regionID = *req.RegionID
		}
		if req.VillageID != nil {
			villageID = *req.VillageID
		}
		if userID != current.UserID || regionID != current.RegionID || villageID != current.VillageID {
			if _, _, _, err := s.references(ctx, tx, userID, regionID, villageID); err != nil {
				return err
			}
			b.set("user_id", userID)
			b.set("region_id", regionID)
			b.set("village_id", villageID)
		}

		if req.Tasks != nil {
			b.set("tasks", pq.StringArray(stringsOrEmpty(*req.Tasks)))
		}
		if req.Status != nil {
			if !validStatus(*req.Status) {
				return apperr.NewBadRequest("status must be one of active, completed, paused")
			}
			b.set("status", *req.Status)
		}

		query, args := b.build("assignments", id, assignmentColumns)
		return tx.GetContext(ctx, &assignment, query, args...)
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Assignment not found"), "Error updating assignment")
	}

	assignments := []model.Assignment{assignment}
	if err := attachAssignmentRelations(ctx, s.db, assignments); err != nil {
		return nil, apperr.Wrap(err, "Error updating assignment")
	}

	s.logger.Info("Assignment updated", zap.String("assignment_id", id))
	return &assignments[0], nil
}

// Delete removes an assignment
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NewNotFound("Assignment not found")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1", id)
	if err != nil {
		return apperr.Wrap(translate(err, "Assignment not found"), "Error deleting assignment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NewNotFound("Assignment not found")
	}

	s.logger.Info("Assignment deleted", zap.String("assignment_id", id))
	return nil
}

func (s *AssignmentService) get(ctx context.Context, q sqlx.QueryerContext, id string, lock rowLock) (*model.Assignment, error) {
	if !validID(id) {
		return nil, apperr.NewNotFound("Assignment not found")
	}
	var a model.Assignment
	if err := sqlx.GetContext(ctx, q, &a, "SELECT "+assignmentColumns+" FROM assignments WHERE id = $1"+string(lock), id); err != nil {
		return nil, translate(err, "Assignment not found")
	}
	return &a, nil
}

// references loads the user, village and region and checks the village lies in the region
func (s *AssignmentService) references(ctx context.Context, q sqlx.QueryerContext, userID, regionID, villageID string) (*model.User, *model.Village, *model.Region, error) {
	user, err := getUser(ctx, q, userID, noLock)
	if err != nil {
		return nil, nil, nil, reference(err, "userId", userID)
	}
	village, err := getVillage(ctx, q, villageID, lockShare)
	if err != nil {
		return nil, nil, nil, reference(err, "villageId", villageID)
	}
	if village.RegionID != regionID {
		return nil, nil, nil, apperr.NewBadRequest("regionId %q does not match the region of village %q", regionID, villageID)
	}
	region, err := getRegion(ctx, q, regionID, lockShare)
	if err != nil {
		return nil, nil, nil, reference(err, "regionId", regionID)
	}
	return user, village, region, nil
}

func parsePeriod(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, ok := model.ParseDate(startRaw)
	if !ok {
		return time.Time{}, time.Time{}, apperr.NewBadRequest("startDate must be RFC 3339 or YYYY-MM-DD")
	}
	end, ok := model.ParseDate(endRaw)
	if !ok {
		return time.Time{}, time.Time{}, apperr.NewBadRequest("endDate must be RFC 3339 or YYYY-MM-DD")
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperr.NewBadRequest("startDate must not be after endDate")
	}
	return start, end, nil
}

func validStatus(status string) bool {
	switch status {
	case model.AssignmentActive, model.AssignmentCompleted, model.AssignmentPaused:
		return true
	}
	return false
}

func attachAssignmentRelations(ctx context.Context, q sqlx.QueryerContext, assignments []model.Assignment) error {
	userIDs := make([]string, len(assignments))
	regionIDs := make([]string, len(assignments))
	villageIDs := make([]string, len(assignments))
	for i, a := range assignments {
		userIDs[i] = a.UserID
		regionIDs[i] = a.RegionID
		villageIDs[i] = a.VillageID
	}

	users, err := usersByID(ctx, q, userIDs)
	if err != nil {
		return err
	}
	regions, err := regionsByID(ctx, q, regionIDs)
	if err != nil {
		return err
	}
	villages, err := villagesByID(ctx, q, villageIDs)
	if err != nil {
		return err
	}

	for i := range assignments {
		a := &assignments[i]
		a.User = users[a.UserID]
		a.Region = regions[a.RegionID]
		a.Village = villages[a.VillageID]
	}
	return nil
}
