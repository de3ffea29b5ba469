package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"chartdeck/internal/db"
	"chartdeck/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func createUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.CreateWithDefaults(context.Background(), user, nil))
	return user
}

func createProject(t *testing.T, repo ProjectRepository, ownerID uint, title string, public bool) *model.Project {
	t.Helper()
	project := &model.Project{UserID: ownerID, Title: title, SourceFilePath: "uploads/x.csv", IsPublic: public}
	require.NoError(t, repo.Create(context.Background(), project))
	return project
}

func createChart(t *testing.T, repo ChartRepository, projectID uint, title string, order int, createdAt time.Time) *model.Chart {
	t.Helper()
	chart := &model.Chart{
		ProjectID:  projectID,
		Title:      title,
		ImagePath:  "charts/" + title + ".png",
		ChartType:  "line",
		OrderIndex: order,
		CreatedAt:  createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), chart))
	return chart
}

func chartTitles(charts []model.Chart) []string {
	titles := make([]string, len(charts))
	for i, c := range charts {
		titles[i] = c.Title
	}
	return titles
}

func TestUserRepository_CreateWithDefaults(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	first := "Ada"
	user := &model.User{Email: "ada@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.CreateWithDefaults(ctx, user, &model.Profile{FirstName: &first}))
	require.NotZero(t, user.ID)

	loaded, err := repo.FindWithRelations(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	require.NotNil(t, loaded.Settings)
	assert.Equal(t, "Ada", *loaded.Profile.FirstName)
	assert.Equal(t, model.ThemeLight, loaded.Settings.Theme)
	assert.True(t, loaded.Settings.ReceiveNotifications)

	byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_CreateWithDefaultsDuplicateEmailRollsBack(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewUserRepository(gormDB)
	createUser(t, repo, "dup@example.com")

	err := repo.CreateWithDefaults(context.Background(), &model.User{Email: "dup@example.com", PasswordHash: "x"}, nil)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var profiles int64
	require.NoError(t, gormDB.Model(&model.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")
	p1 := createProject(t, projects, owner.ID, "p1", false)
	p2 := createProject(t, projects, other.ID, "p2", false)
	createChart(t, charts, p1.ID, "a", 0, time.Now())
	createChart(t, charts, p2.ID, "b", 0, time.Now())

	paths, err := charts.ImagePathsByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"charts/a.png"}, paths)

	require.NoError(t, users.Delete(ctx, owner.ID))

	_, err = users.FindWithRelations(ctx, owner.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = projects.FindByID(ctx, p1.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var remaining int64
	require.NoError(t, gormDB.Model(&model.Chart{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
	require.NoError(t, gormDB.Model(&model.Profile{}).Where("user_id = ?", owner.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	assert.ErrorIs(t, users.Delete(ctx, owner.ID), gorm.ErrRecordNotFound)
}

func TestProjectRepository_Listings(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")
	private := createProject(t, projects, alice.ID, "private", false)
	createProject(t, projects, alice.ID, "public", true)
	createProject(t, projects, bob.ID, "bob's", true)
	createChart(t, charts, private.ID, "c1", 0, time.Now())
	createChart(t, charts, private.ID, "c2", 1, time.Now())

	own, err := projects.ListByOwner(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, own, 2)
	counts := map[string]int64{}
	for _, s := range own {
		counts[s.Title] = s.ChartsCount
	}
	assert.Equal(t, map[string]int64{"private": 2, "public": 0}, counts)

	pub, err := projects.ListPublic(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, pub, 2)
	for _, s := range pub {
		assert.True(t, s.IsPublic)
		assert.NotEqual(t, private.ID, s.ID)
	}

	limited, err := projects.ListPublic(ctx, 0, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	sources, err := projects.SourcePathsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/x.csv"}, sources)

	none, err := projects.ListByOwner(ctx, 999, 0, 100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProjectRepository_SourcePathsInUse(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	createProject(t, projects, owner.ID, "p", false)

	used, err := projects.SourcePathsInUse(ctx, []string{"uploads/x.csv", "uploads/gone.csv"})
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/x.csv"}, used)

	used, err = projects.SourcePathsInUse(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestProjectRepository_DeleteRemovesCharts(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	p := createProject(t, projects, owner.ID, "p", false)
	keep := createProject(t, projects, owner.ID, "keep", false)
	createChart(t, charts, p.ID, "x", 0, time.Now())
	createChart(t, charts, keep.ID, "y", 0, time.Now())

	paths, err := charts.ImagePathsByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"charts/x.png"}, paths)

	require.NoError(t, projects.Delete(ctx, p.ID))

	left, err := charts.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
	kept, err := charts.ListByProject(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, projects.Delete(ctx, p.ID), gorm.ErrRecordNotFound)
}

func TestProjectRepository_UpdateKeepsOwner(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	p := createProject(t, projects, owner.ID, "before", false)

	title := "after"
	model.ProjectUpdate{Title: &title}.Apply(p)
	require.NoError(t, projects.Update(ctx, p))

	loaded, err := projects.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", loaded.Title)
	assert.Equal(t, owner.ID, loaded.UserID)
}

func TestChartRepository_ReorderSwap(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	p := createProject(t, projects, owner.ID, "p", false)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c0 := createChart(t, charts, p.ID, "chart0", 0, base)
	c1 := createChart(t, charts, p.ID, "chart1", 1, base.Add(time.Minute))
	c2 := createChart(t, charts, p.ID, "chart2", 2, base.Add(2*time.Minute))

	for _, move := range []model.ChartOrder{{ChartID: c0.ID, OrderIndex: 2}, {ChartID: c2.ID, OrderIndex: 0}} {
		ok, err := charts.SetOrderIndex(ctx, p.ID, move.ChartID, move.OrderIndex)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	ordered, err := charts.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"chart2", "chart1", "chart0"}, chartTitles(ordered))

	// Duplicate index: ties fall back to creation time.
	ok, err := charts.SetOrderIndex(ctx, p.ID, c1.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	withCharts, err := projects.FindByIDWithCharts(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"chart2", "chart0", "chart1"}, chartTitles(withCharts.Charts))
}

func TestChartRepository_SetOrderIndexScopedToProject(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	p := createProject(t, projects, owner.ID, "p", false)
	other := createProject(t, projects, owner.ID, "other", false)
	c := createChart(t, charts, other.ID, "elsewhere", 5, time.Now())

	ok, err := charts.SetOrderIndex(ctx, p.ID, c.ID, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// Same index as before still counts as applied.
	ok, err = charts.SetOrderIndex(ctx, other.ID, c.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := charts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.OrderIndex)
	require.NotNil(t, loaded.Project)
	assert.Equal(t, other.ID, loaded.Project.ID)
}

func TestChartRepository_UpdateAndDelete(t *testing.T) {
	gormDB := newTestDB(t)
	users := NewUserRepository(gormDB)
	projects := NewProjectRepository(gormDB)
	charts := NewChartRepository(gormDB)
	ctx := context.Background()

	owner := createUser(t, users, "o@example.com")
	p := createProject(t, projects, owner.ID, "p", false)
	c := createChart(t, charts, p.ID, "old", 0, time.Now())

	loaded, err := charts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	title := "new"
	model.ChartUpdate{Title: &title}.Apply(loaded)
	require.NoError(t, charts.Update(ctx, loaded))

	reloaded, err := charts.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded.Title)

	require.NoError(t, charts.Delete(ctx, c.ID))
	_, err = charts.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, charts.Delete(ctx, c.ID), gorm.ErrRecordNotFound)
}
