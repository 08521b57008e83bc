package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/model"
)

func TestVendorService_Create(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM villages WHERE id = \$1 FOR SHARE`).WithArgs(villageA).WillReturnRows(villageRow(villageA, "Channapatna", regionA))
	mock.ExpectQuery(`FROM regions WHERE id = \$1 FOR SHARE`).WithArgs(regionA).WillReturnRows(regionRow(regionA, "Karnataka"))
	mock.ExpectQuery(`INSERT INTO vendors`).
		WillReturnRows(sqlmock.NewRows(vendorCols).AddRow(
			vendorA, "Toy maker", regionA, villageA, "{toys,lacquer}", true, "", "+919800000001", "", "{}", now, now))
	mock.ExpectCommit()

	vendor, err := svc.Create(context.Background(), model.VendorCreateRequest{
		Name:       "Toy maker",
		RegionID:   regionA,
		VillageID:  villageA,
		Categories: []string{"toys", "lacquer"},
		IsStay:     true,
		Phone:      "+919800000001",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"toys", "lacquer"}, []string(vendor.Categories))
	assert.True(t, vendor.IsStay)
	require.NotNil(t, vendor.Village)
	require.NotNil(t, vendor.Region)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_CreateRegionMismatch(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM villages WHERE id = \$1`).WithArgs(villageA).WillReturnRows(villageRow(villageA, "Channapatna", regionA))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), model.VendorCreateRequest{
		Name:      "Weaver",
		RegionID:  regionB,
		VillageID: villageA,
		Phone:     "+919800000002",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "does not match")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_CreateDuplicatePhone(t *testing.T) {
	db, mock := newMockDB(t)
	opts := restrictOptions()
	opts.Uniqueness.VendorPhone = true
	svc := NewVendorService(db, opts, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM villages WHERE id = \$1`).WithArgs(villageA).WillReturnRows(villageRow(villageA, "Channapatna", regionA))
	mock.ExpectQuery(`FROM regions WHERE id = \$1`).WithArgs(regionA).WillReturnRows(regionRow(regionA, "Karnataka"))
	expectKeyLock(mock, "vendors.phone:+919800000001")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vendors WHERE phone = \$1`).
		WithArgs("+919800000001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), model.VendorCreateRequest{
		Name:      "Toy maker",
		RegionID:  regionA,
		VillageID: villageA,
		Phone:     "+919800000001",
	})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_DeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())

	mock.ExpectExec(`DELETE FROM vendors WHERE id = \$1`).WithArgs(vendorA).WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), vendorA)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())

	mock.ExpectExec(`DELETE FROM vendors WHERE id = \$1`).WithArgs(vendorA).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Delete(context.Background(), vendorA))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func vendorRow(regionID, villageID, phone, summary string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(vendorCols).AddRow(
		vendorA, "Toy maker", regionID, villageID, "{toys,lacquer}", true, summary, phone, "Five generations", "{}", now, now)
}

func TestVendorService_UpdatePartialKeepsOtherColumns(t *testing.T) {
	db, mock := newMockDB(t)
	opts := restrictOptions()
	opts.Uniqueness.VendorPhone = true
	svc := NewVendorService(db, opts, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vendors WHERE id = \$1 FOR UPDATE`).WithArgs(vendorA).
		WillReturnRows(vendorRow(regionA, villageA, "+919800000001", ""))
	mock.ExpectQuery(`UPDATE vendors SET updated_at = NOW\(\), phone = \$1, summary = \$2 WHERE id = \$3`).
		WithArgs("+919800000001", "Lacquered wooden toys", vendorA).
		WillReturnRows(vendorRow(regionA, villageA, "+919800000001", "Lacquered wooden toys"))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM villages WHERE id = ANY`).WillReturnRows(villageRow(villageA, "Channapatna", regionA))
	mock.ExpectQuery(`FROM regions WHERE id = ANY`).WillReturnRows(regionRow(regionA, "Karnataka"))

	phone := "+919800000001"
	summary := "Lacquered wooden toys"
	vendor, err := svc.Update(context.Background(), vendorA, model.VendorUpdateRequest{Phone: &phone, Summary: &summary})
	require.NoError(t, err)
	assert.Equal(t, "Lacquered wooden toys", vendor.Summary)
	assert.Equal(t, "Toy maker", vendor.Name)
	assert.Equal(t, "Five generations", vendor.Story)
	assert.Equal(t, []string{"toys", "lacquer"}, []string(vendor.Categories))
	require.NotNil(t, vendor.Village)
	assert.Equal(t, "Channapatna", vendor.Village.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_UpdateVillageInOtherRegion(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vendors WHERE id = \$1 FOR UPDATE`).WithArgs(vendorA).
		WillReturnRows(vendorRow(regionA, villageA, "+919800000001", ""))
	mock.ExpectQuery(`FROM villages WHERE id = \$1 FOR SHARE`).WithArgs(villageB).
		WillReturnRows(villageRow(villageB, "Kondapalli", regionB))
	mock.ExpectRollback()

	village := villageB
	_, err := svc.Update(context.Background(), vendorA, model.VendorUpdateRequest{VillageID: &village})
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "does not match")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_UpdateMovesPlacement(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewVendorService(db, restrictOptions(), zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vendors WHERE id = \$1 FOR UPDATE`).WithArgs(vendorA).
		WillReturnRows(vendorRow(regionA, villageA, "+919800000001", ""))
	mock.ExpectQuery(`FROM villages WHERE id = \$1 FOR SHARE`).WithArgs(villageB).
		WillReturnRows(villageRow(villageB, "Kondapalli", regionB))
	mock.ExpectQuery(`FROM regions WHERE id = \$1 FOR SHARE`).WithArgs(regionB).
		WillReturnRows(regionRow(regionB, "Andhra Pradesh"))
	mock.ExpectQuery(`UPDATE vendors SET updated_at = NOW\(\), region_id = \$1, village_id = \$2 WHERE id = \$3`).
		WithArgs(regionB, villageB, vendorA).
		WillReturnRows(vendorRow(regionB, villageB, "+919800000001", ""))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM villages WHERE id = ANY`).WillReturnRows(villageRow(villageB, "Kondapalli", regionB))
	mock.ExpectQuery(`FROM regions WHERE id = ANY`).WillReturnRows(regionRow(regionB, "Andhra Pradesh"))

	region, village := regionB, villageB
	vendor, err := svc.Update(context.Background(), vendorA, model.VendorUpdateRequest{RegionID: &region, VillageID: &village})
	require.NoError(t, err)
	assert.Equal(t, regionB, vendor.RegionID)
	assert.Equal(t, villageB, vendor.VillageID)
	require.NotNil(t, vendor.Region)
	assert.Equal(t, "Andhra Pradesh", vendor.Region.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVendorService_UpdatePhoneTaken(t *testing.T) {
	db, mock := newMockDB(t)
	opts := restrictOptions()
	opts.Uniqueness.VendorPhone = true
	svc := NewVendorService(db, opts, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM vendors WHERE id = \$1 FOR UPDATE`).WithArgs(vendorA).
		WillReturnRows(vendorRow(regionA, villageA, "+919800000001", ""))
	expectKeyLock(mock, "vendors.phone:+919800000002")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vendors WHERE phone = \$1 AND id <> \$2`).
		WithArgs("+919800000002", vendorA).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	phone := "+919800000002"
	_, err := svc.Update(context.Background(), vendorA, model.VendorUpdateRequest{Phone: &phone})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
