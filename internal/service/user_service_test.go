package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/constructerp/attendance-api/internal/models"
	appErrors "github.com/constructerp/attendance-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	listUsers []models.User
	deleted   []string
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context, role *models.UserRole) ([]models.User, error) {
	return m.listUsers, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	user.ID = "u-new"
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.users, id)
	return nil
}

type mockUserSiteRepo struct {
	sites            map[string]*models.Site
	clearedIncharges []string
}

func (m *mockUserSiteRepo) FindByID(ctx context.Context, id string) (*models.Site, error) {
	if s, ok := m.sites[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserSiteRepo) ClearIncharge(ctx context.Context, inchargeID string) error {
	m.clearedIncharges = append(m.clearedIncharges, inchargeID)
	return nil
}

func newUserFixture() (*UserService, *mockUserRepo, *mockUserSiteRepo) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	sites := &mockUserSiteRepo{sites: map[string]*models.Site{
		"site-1": {ID: "site-1", Name: "Riverside Tower", IsActive: true},
	}}
	return NewUserService(repo, sites, nil, nil), repo, sites
}

func TestUserServiceCreate(t *testing.T) {
	svc, repo, _ := newUserFixture()

	user, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "foreman2",
		Password: "secret123",
		Role:     models.RoleForeman,
		Name:     "Foreman Two",
		SiteID:   siteIDPtr("site-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "u-new", user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
	assert.NotNil(t, repo.users["u-new"])
}

func TestUserServiceCreateUnknownSite(t *testing.T) {
	svc, _, _ := newUserFixture()

	_, err := svc.Create(context.Background(), models.CreateUserRequest{
		Username: "foreman2",
		Password: "secret123",
		Role:     models.RoleForeman,
		Name:     "Foreman Two",
		SiteID:   siteIDPtr("missing"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceListRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newUserFixture()

	bad := models.UserRole("janitor")
	_, err := svc.List(context.Background(), &bad)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateClearsSite(t *testing.T) {
	svc, repo, _ := newUserFixture()
	repo.users["u1"] = &models.User{ID: "u1", Username: "foreman1", Role: models.RoleForeman, Name: "Old", SiteID: siteIDPtr("site-1")}

	empty := ""
	name := "New Name"
	user, err := svc.Update(context.Background(), "u1", models.UpdateUserRequest{Name: &name, SiteID: &empty})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Nil(t, user.SiteID)
}

func TestUserServiceDeleteAdminForbidden(t *testing.T) {
	svc, repo, _ := newUserFixture()
	repo.users["a1"] = &models.User{ID: "a1", Username: "admin", Role: models.RoleAdmin, Name: "Admin"}

	err := svc.Delete(context.Background(), "a1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestUserServiceDeleteInchargeDetachesSites(t *testing.T) {
	svc, repo, sites := newUserFixture()
	repo.users["i1"] = &models.User{ID: "i1", Username: "incharge1", Role: models.RoleSiteIncharge, Name: "Incharge"}

	err := svc.Delete(context.Background(), "i1")
	require.NoError(t, err)
	assert.Contains(t, sites.clearedIncharges, "i1")
	assert.Contains(t, repo.deleted, "i1")
}
