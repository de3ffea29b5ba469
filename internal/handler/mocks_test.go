package handler

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"chartdeck/internal/auth"
	"chartdeck/internal/charting"
	"chartdeck/internal/model"
	"chartdeck/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, identity *auth.Identity) {
	m.Called(ctx, identity)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetMe(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uint) (*model.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, upd model.ProfileUpdate) (*model.Profile, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserService) GetSettings(ctx context.Context, userID uint) (*model.Settings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockUserService) UpdateSettings(ctx context.Context, userID uint, upd model.SettingsUpdate) (*model.Settings, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockUserService) DeleteAccount(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockProjectService is a mock implementation of service.ProjectService.
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, ownerID uint, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, identityID, projectID uint) (*model.Project, error) {
	args := m.Called(ctx, identityID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) ListOwn(ctx context.Context, ownerID uint, page service.Page) ([]model.ProjectSummary, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectSummary), args.Error(1)
}

func (m *MockProjectService) ListPublic(ctx context.Context, page service.Page) ([]model.ProjectSummary, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectSummary), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, identityID, projectID uint, upd model.ProjectUpdate) (*model.Project, error) {
	args := m.Called(ctx, identityID, projectID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, identityID, projectID uint) error {
	args := m.Called(ctx, identityID, projectID)
	return args.Error(0)
}

// MockChartService is a mock implementation of service.ChartService.
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) Create(ctx context.Context, identityID, projectID uint, in service.CreateChartInput) (*model.Chart, *charting.Result, error) {
	args := m.Called(ctx, identityID, projectID, in)
	var chart *model.Chart
	if v := args.Get(0); v != nil {
		chart = v.(*model.Chart)
	}
	var res *charting.Result
	if v := args.Get(1); v != nil {
		res = v.(*charting.Result)
	}
	return chart, res, args.Error(2)
}

func (m *MockChartService) Get(ctx context.Context, identityID, chartID uint) (*model.Chart, error) {
	args := m.Called(ctx, identityID, chartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chart), args.Error(1)
}

func (m *MockChartService) List(ctx context.Context, identityID, projectID uint) ([]model.Chart, error) {
	args := m.Called(ctx, identityID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Chart), args.Error(1)
}

func (m *MockChartService) Update(ctx context.Context, identityID, chartID uint, upd model.ChartUpdate) (*model.Chart, error) {
	args := m.Called(ctx, identityID, chartID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Chart), args.Error(1)
}

func (m *MockChartService) Delete(ctx context.Context, identityID, chartID uint) error {
	args := m.Called(ctx, identityID, chartID)
	return args.Error(0)
}

func (m *MockChartService) Reorder(ctx context.Context, identityID, projectID uint, orders []model.ChartOrder) (int, error) {
	args := m.Called(ctx, identityID, projectID, orders)
	return args.Int(0), args.Error(1)
}

func (m *MockChartService) Image(ctx context.Context, identityID, chartID uint) ([]byte, error) {
	args := m.Called(ctx, identityID, chartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockVisualizeService is a mock implementation of service.VisualizeService.
type MockVisualizeService struct {
	mock.Mock
}

func (m *MockVisualizeService) Upload(ctx context.Context, identityID uint, filename string, r io.Reader) (*service.UploadResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, identityID, filename, string(body))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockVisualizeService) Generate(ctx context.Context, identityID uint, datasetID, chartType string, sel charting.ColumnSelection) (*charting.Result, error) {
	args := m.Called(ctx, identityID, datasetID, chartType, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*charting.Result), args.Error(1)
}
