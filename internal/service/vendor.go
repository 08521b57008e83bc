package service

import (
	"context"
	"strings"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// VendorService handles vendor persistence
type VendorService struct {
	db     *sqlx.DB
	opts   Options
	logger *zap.Logger
}

// NewVendorService creates a new vendor service
func NewVendorService(db *sqlx.DB, opts Options, logger *zap.Logger) *VendorService {
	return &VendorService{
		db:     db,
		opts:   opts,
		logger: logger,
	}
}

// Create inserts a vendor after checking its village belongs to the given region
func (s *VendorService) Create(ctx context.Context, req model.VendorCreateRequest) (*model.Vendor, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.NewBadRequest("name is required")
	}
	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		return nil, apperr.NewBadRequest("phone is required")
	}

	var vendor model.Vendor
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		village, region, err := s.placement(ctx, tx, req.RegionID, req.VillageID)
		if err != nil {
			return err
		}
		if err := s.checkPhone(ctx, tx, phone, ""); err != nil {
			return err
		}

		err = tx.GetContext(ctx, &vendor, `
            INSERT INTO vendors (id, name, region_id, village_id, categories, is_stay, summary, phone, story, story_images, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
            RETURNING `+vendorColumns,
			uuid.NewString(), name, region.ID, village.ID,
			pq.StringArray(stringsOrEmpty(req.Categories)), req.IsStay, req.Summary, phone,
			req.Story, pq.StringArray(stringsOrEmpty(req.StoryImages)))
		if err != nil {
			return err
		}
		vendor.Village = village
		vendor.Region = region
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Vendor not found"), "Failed to create vendor")
	}

	s.logger.Info("Vendor created",
		zap.String("vendor_id", vendor.ID),
		zap.String("village_id", vendor.VillageID),
	)
	return &vendor, nil
}

// List returns every vendor with its village and region
func (s *VendorService) List(ctx context.Context) ([]model.Vendor, error) {
	vendors := []model.Vendor{}
	if err := s.db.SelectContext(ctx, &vendors, "SELECT "+vendorColumns+" FROM vendors ORDER BY created_at, id"); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendors")
	}
	if err := attachVendorRelations(ctx, s.db, vendors); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendors")
	}
	return vendors, nil
}

// Get returns one vendor with relations
func (s *VendorService) Get(ctx context.Context, id string) (*model.Vendor, error) {
	vendor, err := s.get(ctx, s.db, id, noLock)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendor")
	}
	vendors := []model.Vendor{*vendor}
	if err := attachVendorRelations(ctx, s.db, vendors); err != nil {
		return nil, apperr.Wrap(err, "Failed to fetch vendor")
	}
	return &vendors[0], nil
}

// Update overwrites the provided fields, re-checking placement when it changes
func (s *VendorService) Update(ctx context.Context, id string, req model.VendorUpdateRequest) (*model.Vendor, error) {
	var vendor model.Vendor
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		current, err := s.get(ctx, tx, id, lockUpdate)
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

		regionID, villageID := current.RegionID, current.VillageID
		if req.RegionID != nil {
			regionID = *req.RegionID
		}
		if req.VillageID != nil {
			villageID = *req.VillageID
		}
		if regionID != current.RegionID || villageID != current.VillageID {
			if _, _, err := s.placement(ctx, tx, regionID, villageID); err != nil {
				return err
			}
			b.set("region_id", regionID)
			b.set("village_id", villageID)
		}

		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			if phone == "" {
				return apperr.NewBadRequest("phone must not be empty")
			}
			if phone != current.Phone {
				if err := s.checkPhone(ctx, tx, phone, id); err != nil {
					return err
				}
			}
			b.set("phone", phone)
		}
		if req.Categories != nil {
			b.set("categories", pq.StringArray(stringsOrEmpty(*req.Categories)))
		}
		if req.IsStay != nil {
			b.set("is_stay", *req.IsStay)
		}
		if req.Summary != nil {
			b.set("summary", *req.Summary)
		}
		if req.Story != nil {
			b.set("story", *req.Story)
		}
		if req.StoryImages != nil {
			b.set("story_images", pq.StringArray(stringsOrEmpty(*req.StoryImages)))
		}

		query, args := b.build("vendors", id, vendorColumns)
		return tx.GetContext(ctx, &vendor, query, args...)
	})
	if err != nil {
		return nil, apperr.Wrap(translate(err, "Vendor not found"), "Failed to update vendor")
	}

	vendors := []model.Vendor{vendor}
	if err := attachVendorRelations(ctx, s.db, vendors); err != nil {
		return nil, apperr.Wrap(err, "Failed to update vendor")
	}

	s.logger.Info("Vendor updated", zap.String("vendor_id", id))
	return &vendors[0], nil
}

// Delete removes a vendor
func (s *VendorService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.NewNotFound("Vendor not found")
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM vendors WHERE id = $1", id)
	if err != nil {
		return apperr.Wrap(translate(err, "Vendor not found"), "Failed to delete vendor")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NewNotFound("Vendor not found")
	}

	s.logger.Info("Vendor deleted", zap.String("vendor_id", id))
	return nil
}

func (s *VendorService) get(ctx context.Context, q sqlx.QueryerContext, id string, lock rowLock) (*model.Vendor, error) {
	if !validID(id) {
		return nil, apperr.NewNotFound("Vendor not found")
	}
	var v model.Vendor
	if err := sqlx.GetContext(ctx, q, &v, "SELECT "+vendorColumns+" FROM vendors WHERE id = $1"+string(lock), id); err != nil {
		return nil, translate(err, "Vendor not found")
	}
	return &v, nil
}

// placement loads the vendor's village and region and checks they agree
func (s *VendorService) placement(ctx context.Context, q sqlx.QueryerContext, regionID, villageID string) (*model.Village, *model.Region, error) {
	village, err := getVillage(ctx, q, villageID, lockShare)
	if err != nil {
		return nil, nil, reference(err, "villageId", villageID)
	}
	if village.RegionID != regionID {
		return nil, nil, apperr.NewBadRequest("regionId %q does not match the region of village %q", regionID, villageID)
	}
	region, err := getRegion(ctx, q, regionID, lockShare)
	if err != nil {
		return nil, nil, reference(err, "regionId", regionID)
	}
	return village, region, nil
}

// checkPhone enforces vendor phone uniqueness when configured
func (s *VendorService) checkPhone(ctx context.Context, tx *sqlx.Tx, phone, exceptID string) error {
	if !s.opts.Uniqueness.VendorPhone {
		return nil
	}
	taken, err := secondaryKeyTaken(ctx, tx, "vendors", "phone", phone, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.NewConflict("A vendor with this phone already exists")
	}
	return nil
}

func attachVendorRelations(ctx context.Context, q sqlx.QueryerContext, vendors []model.Vendor) error {
	villageIDs := make([]string, len(vendors))
	regionIDs := make([]string, len(vendors))
	for i := range vendors {
		villageIDs[i] = vendors[i].VillageID
		regionIDs[i] = vendors[i].RegionID
	}

	villages, err := villagesByID(ctx, q, villageIDs)
	if err != nil {
		return err
	}
	regions, err := regionsByID(ctx, q, regionIDs)
	if err != nil {
		return err
	}

	for i := range vendors {
		vendors[i].Village = villages[vendors[i].VillageID]
		vendors[i].Region = regions[vendors[i].RegionID]
	}
	return nil
}
