package service

import (
	"context"
	"fmt"

	"artisan-market/pkg/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	regionColumns     = "id, name, description, created_at, updated_at"
	villageColumns    = "id, name, region_id, description, created_at, updated_at"
	vendorColumns     = "id, name, region_id, village_id, categories, is_stay, summary, phone, story, story_images, created_at, updated_at"
	userColumns       = "id, name, email, phone, password_hash, created_at, updated_at"
	assignmentColumns = "id, user_id, region_id, village_id, start_date, end_date, tasks, status, created_at, updated_at"
)

// selectWhereIn loads rows whose column matches any of ids in a single round trip
func selectWhereIn[T any](ctx context.Context, q sqlx.QueryerContext, table, columns, column, order string, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY($1) ORDER BY %s", columns, table, column, order)
	var rows []T
	if err := sqlx.SelectContext(ctx, q, &rows, query, pq.Array(uniqueIDs(ids))); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return rows, nil
}

func regionsByID(ctx context.Context, q sqlx.QueryerContext, ids []string) (map[string]*model.Region, error) {
	rows, err := selectWhereIn[model.Region](ctx, q, "regions", regionColumns, "id", "created_at", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Region, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func villagesByID(ctx context.Context, q sqlx.QueryerContext, ids []string) (map[string]*model.Village, error) {
	rows, err := selectWhereIn[model.Village](ctx, q, "villages", villageColumns, "id", "created_at", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.Village, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func usersByID(ctx context.Context, q sqlx.QueryerContext, ids []string) (map[string]*model.User, error) {
	rows, err := selectWhereIn[model.User](ctx, q, "users", userColumns, "id", "created_at", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.User, len(rows))
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

func villagesByRegion(ctx context.Context, q sqlx.QueryerContext, regionIDs []string) (map[string][]model.Village, error) {
	rows, err := selectWhereIn[model.Village](ctx, q, "villages", villageColumns, "region_id", "created_at", regionIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Village)
	for _, v := range rows {
		out[v.RegionID] = append(out[v.RegionID], v)
	}
	return out, nil
}

func vendorsByVillage(ctx context.Context, q sqlx.QueryerContext, villageIDs []string) (map[string][]model.Vendor, error) {
	rows, err := selectWhereIn[model.Vendor](ctx, q, "vendors", vendorColumns, "village_id", "created_at", villageIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Vendor)
	for _, v := range rows {
		out[v.VillageID] = append(out[v.VillageID], v)
	}
	return out, nil
}

func assignmentsByVillage(ctx context.Context, q sqlx.QueryerContext, villageIDs []string) (map[string][]model.Assignment, error) {
	rows, err := selectWhereIn[model.Assignment](ctx, q, "assignments", assignmentColumns, "village_id", "start_date", villageIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Assignment)
	for _, a := range rows {
		out[a.VillageID] = append(out[a.VillageID], a)
	}
	return out, nil
}

func assignmentsByUser(ctx context.Context, q sqlx.QueryerContext, userIDs []string) (map[string][]model.Assignment, error) {
	rows, err := selectWhereIn[model.Assignment](ctx, q, "assignments", assignmentColumns, "user_id", "start_date", userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]model.Assignment)
	for _, a := range rows {
		out[a.UserID] = append(out[a.UserID], a)
	}
	return out, nil
}

// getRegion, getVillage and getUser return apperr NotFound for absent or malformed ids

func getRegion(ctx context.Context, q sqlx.QueryerContext, id string, lock rowLock) (*model.Region, error) {
	if !validID(id) {
		return nil, translate(errNoRows, "Region not found")
	}
	var r model.Region
	if err := sqlx.GetContext(ctx, q, &r, "SELECT "+regionColumns+" FROM regions WHERE id = $1"+string(lock), id); err != nil {
		return nil, translate(err, "Region not found")
	}
	return &r, nil
}

func getVillage(ctx context.Context, q sqlx.QueryerContext, id string, lock rowLock) (*model.Village, error) {
	if !validID(id) {
		return nil, translate(errNoRows, "Village not found")
	}
	var v model.Village
	if err := sqlx.GetContext(ctx, q, &v, "SELECT "+villageColumns+" FROM villages WHERE id = $1"+string(lock), id); err != nil {
		return nil, translate(err, "Village not found")
	}
	return &v, nil
}

func getUser(ctx context.Context, q sqlx.QueryerContext, id string, lock rowLock) (*model.User, error) {
	if !validID(id) {
		return nil, translate(errNoRows, "User not found")
	}
	var u model.User
	if err := sqlx.GetContext(ctx, q, &u, "SELECT "+userColumns+" FROM users WHERE id = $1"+string(lock), id); err != nil {
		return nil, translate(err, "User not found")
	}
	return &u, nil
}

// rowLock is the locking clause appended to single-row reads inside a transaction.
// lockShare keeps a parent row from changing until the child write commits.
type rowLock string

const (
	noLock     rowLock = ""
	lockShare  rowLock = " FOR SHARE"
	lockUpdate rowLock = " FOR UPDATE"
)
