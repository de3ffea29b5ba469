package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"chartdeck/internal/auth"
	"chartdeck/internal/authz"
	"chartdeck/internal/charting"
	"chartdeck/internal/config"
	"chartdeck/internal/dataset"
	"chartdeck/internal/db"
	"chartdeck/internal/errors"
	"chartdeck/internal/logging"
	"chartdeck/internal/repository"
	"chartdeck/internal/service"
	"chartdeck/internal/storage"
)

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var regions = []string{"North", "South", "East", "West"}

// demoChart is one chart of the demo project.
type demoChart struct {
	title     string
	chartType charting.ChartType
	columns   charting.ColumnSelection
}

var demoCharts = []demoChart{
	{"Revenue and cost", charting.Line, charting.ColumnSelection{X: []string{"month"}, Y: []string{"revenue", "cost"}}},
	{"Revenue by month", charting.Bar, charting.ColumnSelection{X: []string{"month"}, Y: []string{"revenue"}}},
	{"Revenue share by month", charting.Pie, charting.ColumnSelection{Category: []string{"month"}, Value: []string{"revenue"}}},
	{"Cost against revenue", charting.Scatter, charting.ColumnSelection{X: []string{"revenue"}, Y: []string{"cost"}}},
	{"Cost and margin", charting.Area, charting.ColumnSelection{X: []string{"month"}, Y: []string{"cost", "margin"}}},
}

func main() {
	email := flag.String("email", "demo@chartdeck.local", "demo user email")
	password := flag.String("password", "demo1234", "demo user password")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	if err := run(context.Background(), cfg, logger, *email, *password); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, email, password string) error {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	artifacts, err := storage.Open(ctx, cfg.StorageBackend, cfg.StorageDir, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("artifact store: %w", err)
	}

	users := repository.NewUserRepository(gormDB)
	projects := repository.NewProjectRepository(gormDB)
	charts := repository.NewChartRepository(gormDB)
	guard := authz.NewGuard(projects, charts)
	datasets := dataset.NewMemoryStore(time.Hour)
	renderer := charting.NewRenderer(charting.NewPlotter(), artifacts, logger)

	jwtService, err := auth.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("jwt: %w", err)
	}

	authService := service.NewAuthService(users, jwtService, nil)
	visualizeService := service.NewVisualizeService(datasets, renderer, artifacts, logger)
	projectService := service.NewProjectService(projects, charts, guard, artifacts, logger)
	chartService := service.NewChartService(charts, guard, datasets, renderer, artifacts, logger)

	first, last := "Demo", "User"
	user, err := authService.Register(ctx, service.RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: &first,
		LastName:  &last,
	})
	if stderrors.Is(err, errors.ErrEmailTaken) {
		logger.Info("demo user already exists, nothing to seed", "email", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("register demo user: %w", err)
	}
	logger.Info("demo user created", "email", email, "id", user.ID)

	upload, err := visualizeService.Upload(ctx, user.ID, "monthly_sales.csv", bytes.NewReader(sampleCSV()))
	if err != nil {
		return fmt.Errorf("upload sample: %w", err)
	}

	description := "Generated sample data: twelve months of revenue and cost."
	project, err := projectService.Create(ctx, user.ID, service.CreateProjectInput{
		Title:          "Monthly sales",
		Description:    &description,
		SourceFilePath: upload.SourceFilePath,
		IsPublic:       true,
	})
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	created := 0
	for _, dc := range demoCharts {
		chart, res, err := chartService.Create(ctx, user.ID, project.ID, service.CreateChartInput{
			Title:     dc.title,
			DatasetID: upload.DatasetID,
			ChartType: string(dc.chartType),
			Columns:   dc.columns,
		})
		if err != nil {
			return fmt.Errorf("create chart %q: %w", dc.title, err)
		}
		if res.Rejected() {
			logger.Warn("chart rejected", "title", dc.title, "reason", res.Rejection)
			continue
		}
		logger.Debug("chart created", "id", chart.ID, "image", chart.ImagePath)
		created++
	}

	logger.Info("seed completed", "project_id", project.ID, "charts", created)
	return nil
}

// sampleCSV builds twelve months of sales. Revenue grows 4% a month from
// 12000, cost is 62% of revenue; amounts are rounded to cents.
func sampleCSV() []byte {
	var buf bytes.Buffer
	buf.WriteString("month,region,revenue,cost,margin\n")

	revenue := decimal.NewFromInt(12000)
	growth := decimal.RequireFromString("1.04")
	costRatio := decimal.RequireFromString("0.62")
	for i, month := range months {
		cost := revenue.Mul(costRatio).Round(2)
		margin := revenue.Round(2).Sub(cost)
		fmt.Fprintf(&buf, "%s,%s,%s,%s,%s\n",
			month, regions[i%len(regions)],
			revenue.StringFixed(2), cost.StringFixed(2), margin.StringFixed(2))
		revenue = revenue.Mul(growth)
	}
	return buf.Bytes()
}
