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

// RegionService handles region persistence
type RegionService struct {
	db     *sqlx.DB
	opts   Options
	logger *zap.Logger
}

// NewRegionService creates a new region service
func NewRegionService(db *sqlx.DB, opts Options, logger *zap.Logger) *RegionService {
	return &RegionService{
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

type regionDependents struct {
	Villages    int `db:"villages"`
	Vendors     int `db:"vendors"`
	Assignments int `db:"assignments"`
}

func (d regionDependents) exist() bool {
	return d.Villages+d.Vendors+d.Assignments > 0
}

// Create inserts a region
func (s *RegionService) Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.NewBadRequest("name is required")
	}

	var region model.Region
	err := s.db.GetContext(ctx, &region, `
        INSERT INTO regions (id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING `+regionColumns,
		uuid.NewString(), name, req.Description)
	if err != nil {
		s.logger.Error("Failed to create region", zap.Error(err))
		return nil, apperr.Wrap(translate(err, "Region not found"), "Failed to create region")
	}
	region.Villages = []model.Village{}

	s.logger.Info("Region created", zap.String("region_id", region.ID), zap.String("name", region.Name))
	return &region, nil
}

// List returns every region with its villages
func (s *RegionService) List(ctx context.Context) ([]model.Region, error) {
	regions := []model.Region{}
	if err := s.db.SelectContext(ctx, &regions, "SELECT "+regionColumns+" FROM regions ORDER BY created_at, id"); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch regions")
	}
	if err := s.attachVillages(ctx, s.db, regions); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch regions")
	}
	return regions, nil
}

// Get returns one region with its villages
func (s *RegionService) Get(ctx context.Context, id string) (*model.Region, error) {
	region, err := getRegion(ctx, s.db, id, noLock)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch region")
	}
	regions := []model.Region{*region}
	if err := s.attachVillages(ctx, s.db, regions); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch region")
	}
	return &regions[0], nil
}

// Update overwrites the provided fields
func (s *RegionService) Update(ctx context.Context, id string, req model.RegionUpdateRequest) (*model.Region, error) {
	if !validID(id) {
		return nil, apperr.NewNotFound("Region not found")
	}

	var b updateBuilder
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.NewBadRequest("name must not be empty")
		}
		b.set("name", name)
	}
	if req.Description != nil {
		b.set("description", *req.Description)
	}

	query, args := b.build("regions", id, regionColumns)
	var region model.Region
	if err := s.db.GetContext(ctx, &region, query, args...); err != nil {
		return nil, apperr.Wrap(translate(err, "Region not found"), "Failed to update region")
	}

	regions := []model.Region{region}
	if err := s.attachVillages(ctx, s.db, regions); err != nil {
		return nil, apperr.Wrap(err, "Failed to update region")
	}

	s.logger.Info("Region updated", zap.String("region_id", id))
	return &regions[0], nil
}

// Delete removes a region. Dependents block the delete under the restrict
// policy and are removed with it under cascade.
func (s *RegionService) Delete(ctx context.Context, id string) error {
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := getRegion(ctx, tx, id, lockUpdate); err != nil {
			return err
		}

		var deps regionDependents
		err := tx.GetContext(ctx, &deps, `
            SELECT
                (SELECT COUNT(*) FROM villages WHERE region_id = $1) AS villages,
                (SELECT COUNT(*) FROM vendors WHERE region_id = $1) AS vendors,
                (SELECT COUNT(*) FROM assignments WHERE region_id = $1) AS assignments
        `, id)
		if err != nil {
			return err
		}

		if deps.exist() {
			if !s.opts.cascade() {
				return apperr.NewConflict("Region has dependent records (villages: %d, vendors: %d, assignments: %d)",
					deps.Villages, deps.Vendors, deps.Assignments)
			}
			cascade := []string{
				`DELETE FROM assignments WHERE region_id = $1 OR village_id IN (SELECT id FROM villages WHERE region_id = $1)`,
				`DELETE FROM vendors WHERE region_id = $1 OR village_id IN (SELECT id FROM villages WHERE region_id = $1)`,
				`DELETE FROM villages WHERE region_id = $1`,
			}
			for _, stmt := range cascade {
				if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
					return err
				}
			}
			s.logger.Info("Cascading region delete",
				zap.String("region_id", id),
				zap.Int("villages", deps.Villages),
				zap.Int("vendors", deps.Vendors),
				zap.Int("assignments", deps.Assignments),
			)
		}

		_, err = tx.ExecContext(ctx, "DELETE FROM regions WHERE id = $1", id)
		return err
	})
	if err != nil {
		return apperr.Wrap(translate(err, "Region not found"), "Failed to delete region")
	}

	s.logger.Info("Region deleted", zap.String("region_id", id))
	return nil
}

// ListVillages returns the villages of one region
func (s *RegionService) ListVillages(ctx context.Context, id string) ([]model.Village, error) {
	if _, err := getRegion(ctx, s.db, id, noLock); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch villages")
	}
	byRegion, err := villagesByRegion(ctx, s.db, []string{id})
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch villages")
	}
	if v := byRegion[id]; v != nil {
		return v, nil
	}
	return []model.Village{}, nil
}

func (s *RegionService) attachVillages(ctx context.Context, q sqlx.QueryerContext, regions []model.Region) error {
	ids := make([]string, len(regions))
	for i := range regions {
		ids[i] = regions[i].ID
	}
	byRegion, err := villagesByRegion(ctx, q, ids)
	if err != nil {
		return err
	}
	for i := range regions {
		regions[i].Villages = byRegion[regions[i].ID]
		if regions[i].Villages == nil {
			regions[i].Villages = []model.Village{}
		}
	}
	return nil
}
