package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
)

// projectRow maps the directory's projects table.
type projectRow struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	Description    string
	Category       string
	GitHubRepo     string     `gorm:"column:github_repo"`
	GitHubStars    int        `gorm:"column:github_stars"`
	GitHubPushedAt *time.Time `gorm:"column:github_pushed_at"`
	GitHubCommits  *int       `gorm:"column:github_commits"`
	RatingCount    int
	AverageRating  float64
	CommentCount   int
	Views          *int
	Status         string
	CreatedAt      time.Time
}

func (projectRow) TableName() string { return "projects" }

func (r projectRow) toModel() model.Project {
	return model.Project{
		ID:             r.ID,
		Name:           r.Title,
		Description:    r.Description,
		Category:       r.Category,
		GitHubRepo:     r.GitHubRepo,
		GitHubStars:    r.GitHubStars,
		GitHubPushedAt: r.GitHubPushedAt,
		GitHubCommits:  r.GitHubCommits,
		RatingCount:    r.RatingCount,
		AverageRating:  r.AverageRating,
		CommentCount:   r.CommentCount,
		Views:          r.Views,
		CreatedAt:      r.CreatedAt,
	}
}

// StatusApproved is the moderation status of listed projects.
const StatusApproved = "approved"

// PostgresSupplier reads approved projects from Postgres.
type PostgresSupplier struct {
	db   *gorm.DB
	opts options
}

// OpenPostgres connects to dsn and returns a supplier.
func OpenPostgres(dsn string, opts ...Option) (*PostgresSupplier, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewPostgresSupplier(db, opts...), nil
}

// NewPostgresSupplier wraps an open gorm connection.
func NewPostgresSupplier(db *gorm.DB, opts ...Option) *PostgresSupplier {
	return &PostgresSupplier{db: db, opts: apply(opts)}
}

// Projects returns every approved project, newest first.
func (s *PostgresSupplier) Projects(ctx context.Context) ([]model.Project, error) {
	var rows []projectRow
	err := s.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	projects := make([]model.Project, len(rows))
	for i, r := range rows {
		projects[i] = r.toModel()
	}
	return sanitize(ctx, "postgres", projects, s.opts.log), nil
}

// Close releases the underlying connection pool.
func (s *PostgresSupplier) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
