package enrich

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/pkg/google"
	"github.com/sells-group/contact-cli/pkg/serpapi"
)

// --- SerpAPI mock ---

type mockSearchClient struct {
	mock.Mock
}

func (m *mockSearchClient) Search(ctx context.Context, query string, opts ...serpapi.SearchOption) (*serpapi.SearchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*serpapi.SearchResponse), args.Error(1)
}

// --- NER mock ---

type mockNLPClient struct {
	mock.Mock
}

func (m *mockNLPClient) AnalyzeEntities(ctx context.Context, text string) (*google.EntitiesResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*google.EntitiesResponse), args.Error(1)
}

// --- Fetcher mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) CompanyInfo(ctx context.Context, company string) (model.CompanyRecord, error) {
	args := m.Called(ctx, company)
	return args.Get(0).(model.CompanyRecord), args.Error(1)
}

// --- Store mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) GetCached(ctx context.Context, company string) (map[string]string, error) {
	args := m.Called(ctx, company)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *mockStore) Record(ctx context.Context, company string, fields map[string]string, ttl time.Duration) error {
	return m.Called(ctx, company, fields, ttl).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
