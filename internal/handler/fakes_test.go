package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"artisan-market/internal/apperr"
	"artisan-market/internal/regiondir"
	"artisan-market/pkg/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errUnset = apperr.NewNotFound("not found")

type fakeRegions struct {
	create       func(model.RegionCreateRequest) (*model.Region, error)
	list         func() ([]model.Region, error)
	get          func(string) (*model.Region, error)
	update       func(string, model.RegionUpdateRequest) (*model.Region, error)
	delete       func(string) error
	listVillages func(string) ([]model.Village, error)
}

func (f *fakeRegions) Create(_ context.Context, req model.RegionCreateRequest) (*model.Region, error) {
	if f.create == nil {
		return nil, errUnset
	}
	return f.create(req)
}

func (f *fakeRegions) List(context.Context) ([]model.Region, error) {
	if f.list == nil {
		return []model.Region{}, nil
	}
	return f.list()
}

func (f *fakeRegions) Get(_ context.Context, id string) (*model.Region, error) {
	if f.get == nil {
		return nil, errUnset
	}
	return f.get(id)
}

func (f *fakeRegions) Update(_ context.Context, id string, req model.RegionUpdateRequest) (*model.Region, error) {
	if f.update == nil {
		return nil, errUnset
	}
	return f.update(id, req)
}

func (f *fakeRegions) Delete(_ context.Context, id string) error {
	if f.delete == nil {
		return errUnset
	}
	return f.delete(id)
}

func (f *fakeRegions) ListVillages(_ context.Context, id string) ([]model.Village, error) {
	if f.listVillages == nil {
		return nil, errUnset
	}
	return f.listVillages(id)
}

type fakeVillages struct {
	create      func(model.VillageCreateRequest) (*model.Village, error)
	delete      func(string) error
	listVendors func(string) ([]model.Vendor, error)
}

func (f *fakeVillages) Create(_ context.Context, req model.VillageCreateRequest) (*model.Village, error) {
	if f.create == nil {
		return nil, errUnset
	}
	return f.create(req)
}

func (f *fakeVillages) List(context.Context) ([]model.Village, error) {
	return []model.Village{}, nil
}

func (f *fakeVillages) Get(context.Context, string) (*model.Village, error) {
	return nil, errUnset
}

func (f *fakeVillages) Update(context.Context, string, model.VillageUpdateRequest) (*model.Village, error) {
	return nil, errUnset
}

func (f *fakeVillages) Delete(_ context.Context, id string) error {
	if f.delete == nil {
		return errUnset
	}
	return f.delete(id)
}

func (f *fakeVillages) ListVendors(_ context.Context, id string) ([]model.Vendor, error) {
	if f.listVendors == nil {
		return nil, errUnset
	}
	return f.listVendors(id)
}

type fakeVendors struct {
	create func(model.VendorCreateRequest) (*model.Vendor, error)
}

func (f *fakeVendors) Create(_ context.Context, req model.VendorCreateRequest) (*model.Vendor, error) {
	if f.create == nil {
		return nil, errUnset
	}
	return f.create(req)
}

func (f *fakeVendors) List(context.Context) ([]model.Vendor, error) {
	return []model.Vendor{}, nil
}

func (f *fakeVendors) Get(context.Context, string) (*model.Vendor, error) {
	return nil, errUnset
}

func (f *fakeVendors) Update(context.Context, string, model.VendorUpdateRequest) (*model.Vendor, error) {
	return nil, errUnset
}

func (f *fakeVendors) Delete(context.Context, string) error {
	return errUnset
}

type fakeUsers struct {
	get           func(string) (*model.User, error)
	getByPhone    func(string) (*model.User, error)
	updateByPhone func(model.UserPhoneUpdateRequest) (*model.User, error)
	deleteByPhone func(string) error
}

func (f *fakeUsers) Create(context.Context, model.UserCreateRequest) (*model.User, error) {
	return nil, errUnset
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	return []model.User{}, nil
}

func (f *fakeUsers) Get(_ context.Context, id string) (*model.User, error) {
	if f.get == nil {
		return nil, errUnset
	}
	return f.get(id)
}

func (f *fakeUsers) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	if f.getByPhone == nil {
		return nil, errUnset
	}
	return f.getByPhone(phone)
}

func (f *fakeUsers) Update(context.Context, string, model.UserUpdateRequest) (*model.User, error) {
	return nil, errUnset
}

func (f *fakeUsers) UpdateByPhone(_ context.Context, req model.UserPhoneUpdateRequest) (*model.User, error) {
	if f.updateByPhone == nil {
		return nil, errUnset
	}
	return f.updateByPhone(req)
}

func (f *fakeUsers) Delete(context.Context, string) error {
	return errUnset
}

func (f *fakeUsers) DeleteByPhone(_ context.Context, phone string) error {
	if f.deleteByPhone == nil {
		return errUnset
	}
	return f.deleteByPhone(phone)
}

type fakeAssignments struct {
	create     func(model.AssignmentCreateRequest) (*model.Assignment, error)
	listByUser func(string) ([]model.Assignment, error)
}

func (f *fakeAssignments) Create(_ context.Context, req model.AssignmentCreateRequest) (*model.Assignment, error) {
	if f.create == nil {
		return nil, errUnset
	}
	return f.create(req)
}

func (f *fakeAssignments) List(context.Context) ([]model.Assignment, error) {
	return []model.Assignment{}, nil
}

func (f *fakeAssignments) ListByUser(_ context.Context, userID string) ([]model.Assignment, error) {
	if f.listByUser == nil {
		return nil, errUnset
	}
	return f.listByUser(userID)
}

func (f *fakeAssignments) Get(context.Context, string) (*model.Assignment, error) {
	return nil, errUnset
}

func (f *fakeAssignments) Update(context.Context, string, model.AssignmentUpdateRequest) (*model.Assignment, error) {
	return nil, errUnset
}

func (f *fakeAssignments) Delete(context.Context, string) error {
	return errUnset
}

type fakeAuth struct {
	login func(model.LoginRequest) (*model.User, string, error)
}

func (f *fakeAuth) Login(_ context.Context, req model.LoginRequest) (*model.User, string, error) {
	if f.login == nil {
		return nil, "", apperr.NewUnauthorized("invalid credentials")
	}
	return f.login(req)
}

type fakeDirectory struct {
	regions  *regiondir.Response
	villages map[string]*regiondir.Response
	err      error
}

func (f *fakeDirectory) FetchRegions(context.Context) (*regiondir.Response, error) {
	return f.regions, f.err
}

func (f *fakeDirectory) FetchVillages(_ context.Context, regionID string) (*regiondir.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.villages[regionID], nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type fixture struct {
	regions     *fakeRegions
	villages    *fakeVillages
	vendors     *fakeVendors
	users       *fakeUsers
	assignments *fakeAssignments
	auth        *fakeAuth
}

func newFixture() *fixture {
	return &fixture{
		regions:     &fakeRegions{},
		villages:    &fakeVillages{},
		vendors:     &fakeVendors{},
		users:       &fakeUsers{},
		assignments: &fakeAssignments{},
		auth:        &fakeAuth{},
	}
}

var testSecret = []byte("handler-test-secret")

func (f *fixture) config() RouterConfig {
	return RouterConfig{
		Regions:     f.regions,
		Villages:    f.villages,
		Vendors:     f.vendors,
		Users:       f.users,
		Assignments: f.assignments,
		Auth:        f.auth,
		DB:          fakePinger{},
		JWTSecret:   testSecret,
		CORSOrigins: []string{"http://localhost:5173"},
	}
}

func (f *fixture) router() *gin.Engine {
	return NewRouter(f.config())
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func newAuthedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
