package service

import (
	"context"
	"strings"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// VillageService handles village persistence
type VillageService struct {
	db     *sqlx.DB
	opts   Options
	logger *zap.Logger
}

// NewVillageService creates a new village service
func NewVillageService(db *sqlx.DB, opts Options, logger *zap.Logger) *VillageService {
	return &VillageService{
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// Create inserts a village under an existing region
func (s *VillageService) Create(ctx context.Context, req model.VillageCreateRequest) (*model.Village, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.NewBadRequest("name is required")
	}

	var village model.Village
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		region, err := getRegion(ctx, tx, req.RegionID, noLock)
		if err != nil {
			return reference(err, "regionId", req.RegionID)
		}

		err = tx.GetContext(ctx, &village, `
            INSERT INTO villages (id, name, region_id, description, created_at, updated_at)
            VALUES ($1, $2, $3, $4, NOW(), NOW())
            RETURNING `+villageColumns,
			uuid.NewString(), name, region.ID, req.Description)
		if err != nil {
			return err
		}
		village.Region = region
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Village not found"), "Failed to create village")
	}
	village.Vendors = []model.Vendor{}
	village.Assignments = []model.Assignment{}

	s.logger.Info("Village created",
		zap.String("village_id", village.ID),
		zap.String("region_id", village.RegionID),
	)
	return &village, nil
}

// List returns every village with its region, vendors and assignments
func (s *VillageService) List(ctx context.Context) ([]model.Village, error) {
	villages := []model.Village{}
	if err := s.db.SelectContext(ctx, &villages, "SELECT "+villageColumns+" FROM villages ORDER BY created_at, id"); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch villages")
	}
	if err := s.attachRelations(ctx, s.db, villages); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch villages")
	}
	return villages, nil
}

// Get returns one village with relations
func (s *VillageService) Get(ctx context.Context, id string) (*model.Village, error) {
	village, err := getVillage(ctx, s.db, id, noLock)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch village")
	}
	villages := []model.Village{*village}
	if err := s.attachRelations(ctx, s.db, villages); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch village")
	}
	return &villages[0], nil
}

// Update overwrites the provided fields. Moving a village to another region
// moves its vendors and assignments with it.
func (s *VillageService) Update(ctx context.Context, id string, req model.VillageUpdateRequest) (*model.Village, error) {
	var village model.Village
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		current, err := getVillage(ctx, tx, id, lockUpdate)
		if err != nil {
			return err
		}

		var b updateBuilder
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperr.NewBadRequest("name must not be empty")
			}
			b.set("name", name)
		}
		if req.Description != nil {
			b.set("description", *req.Description)
		}

		moved := req.RegionID != nil && *req.RegionID != current.RegionID
		if moved {
			if _, err := getRegion(ctx, tx, *req.RegionID, noLock); err != nil {
				return reference(err, "regionId", *req.RegionID)
			}
			b.set("region_id", *req.RegionID)
		}

		query, args := b.build("villages", id, villageColumns)
		if err := tx.GetContext(ctx, &village, query, args...); err != nil {
			return err
		}

		if moved {
			for _, stmt := range []string{
				`UPDATE vendors SET region_id = $1, updated_at = NOW() WHERE village_id = $2`,
				`UPDATE assignments SET region_id = $1, updated_at = NOW() WHERE village_id = $2`,
			} {
				if _, err := tx.ExecContext(ctx, stmt, village.RegionID, id); err != nil {
					return err
				}
			}
			s.logger.Info("Village moved to another region",
				zap.String("village_id", id),
				zap.String("from_region_id", current.RegionID),
				zap.String("to_region_id", village.RegionID),
			)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Village not found"), "Failed to update village")
	}

	villages := []model.Village{village}
	if err := s.attachRelations(ctx, s.db, villages); err != nil {
		return nil, apperr.Wrap(err, "Failed to update village")
	}
	return &villages[0], nil
}

// Delete removes a village, honouring the delete policy for its vendors and assignments
func (s *VillageService) Delete(ctx context.Context, id string) error {
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := getVillage(ctx, tx, id, lockUpdate); err != nil {
			return err
		}

		var deps struct {
			Vendors     int `db:"vendors"`
			Assignments int `db:"assignments"`
		}
		err := tx.GetContext(ctx, &deps, `
            SELECT
                (SELECT COUNT(*) FROM vendors WHERE village_id = $1) AS vendors,
                (SELECT COUNT(*) FROM assignments WHERE village_id = $1) AS assignments
        `, id)
		if err != nil {
			return err
		}

		if deps.Vendors+deps.Assignments > 0 {
			if !s.opts.cascade() {
				return apperr.NewConflict("Village has dependent records (vendors: %d, assignments: %d)",
					deps.Vendors, deps.Assignments)
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM assignments WHERE village_id = $1", id); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, "DELETE FROM vendors WHERE village_id = $1", id); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM villages WHERE id = $1", id)
		return err
	})
	if err != nil {
		return apperr.Wrap(translate(err, "Village not found"), "Failed to delete village")
	}

	s.logger.Info("Village deleted", zap.String("village_id", id))
	return nil
}

// ListVendors returns the vendors of one village
func (s *VillageService) ListVendors(ctx context.Context, id string) ([]model.Vendor, error) {
	if _, err := getVillage(ctx, s.db, id, noLock); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendors")
	}
	byVillage, err := vendorsByVillage(ctx, s.db, []string{id})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendors")
	}
	if v := byVillage[id]; v != nil {
		return v, nil
	}
	return []model.Vendor{}, nil
}

func (s *VillageService) attachRelations(ctx context.Context, q sqlx.QueryerContext, villages []model.Village) error {
	ids := make([]string, len(villages))
	regionIDs := make([]string, len(villages))
	for i := range villages {
		ids[i] = villages[i].ID
		regionIDs[i] = villages[i].RegionID
	}

	regions, err := regionsByID(ctx, q, regionIDs)
	if err != nil {
		return err
	}
	vendors, err := vendorsByVillage(ctx, q, ids)
	if err != nil {
		return err
	}
	assignments, err := assignmentsByVillage(ctx, q, ids)
	if err != nil {
		return err
	}

	for i := range villages {
		v := &villages[i]
		v.Region = regions[v.RegionID]
		v.Vendors = vendors[v.ID]
		if v.Vendors == nil {
			v.Vendors = []model.Vendor{}
		}
		v.Assignments = assignments[v.ID]
		if v.Assignments == nil {
			v.Assignments = []model.Assignment{}
		}
	}
	return nil
}
