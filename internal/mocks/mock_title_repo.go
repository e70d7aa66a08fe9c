package mocks

import (
	"context"
	"time"

	"github.com/ayvazoglu/title-catalog/internal/domain"
)

type MockTitleRepo struct {
	domain.TitleRepository
	GetAllFunc         func(ctx context.Context, filters domain.TitleFilters) ([]*domain.Title, *domain.Metadata, error)
	GetByIDFunc        func(ctx context.Context, id int) (*domain.Title, error)
	CreateFunc         func(ctx context.Context, title *domain.Title) error
	UpdateFunc         func(ctx context.Context, title *domain.Title) error
	DeleteFunc         func(ctx context.Context, id int) error
	GetRecentFunc      func(ctx context.Context, since time.Time, limit int) ([]*domain.Title, error)
	GetStatsFunc       func(ctx context.Context) (*domain.Stats, error)
	ExistsByShowIDFunc func(ctx context.Context, showID string) (bool, error)
	BulkUpsertFunc     func(ctx context.Context, titles []*domain.Title) (*domain.UpsertResult, error)
}

func (m *MockTitleRepo) GetAll(ctx context.Context, filters domain.TitleFilters) ([]*domain.Title, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, filters)
}

func (m *MockTitleRepo) GetByID(ctx context.Context, id int) (*domain.Title, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockTitleRepo) Create(ctx context.Context, title *domain.Title) error {
	return m.CreateFunc(ctx, title)
}

func (m *MockTitleRepo) Update(ctx context.Context, title *domain.Title) error {
	return m.UpdateFunc(ctx, title)
}

func (m *MockTitleRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockTitleRepo) GetRecent(ctx context.Context, since time.Time, limit int) ([]*domain.Title, error) {
	return m.GetRecentFunc(ctx, since, limit)
}

func (m *MockTitleRepo) GetStats(ctx context.Context) (*domain.Stats, error) {
	return m.GetStatsFunc(ctx)
}

func (m *MockTitleRepo) ExistsByShowID(ctx context.Context, showID string) (bool, error) {
	return m.ExistsByShowIDFunc(ctx, showID)
}

func (m *MockTitleRepo) BulkUpsert(ctx context.Context, titles []*domain.Title) (*domain.UpsertResult, error) {
	return m.BulkUpsertFunc(ctx, titles)
}
