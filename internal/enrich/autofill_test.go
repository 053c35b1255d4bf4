package enrich

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-cli/internal/dataset"
	"github.com/sells-group/contact-cli/internal/model"
)

func acmeRecord() model.CompanyRecord {
	return model.CompanyRecord{
		Company: "Acme",
		Executives: []model.ExecutiveRecord{
			{Title: model.RoleCFO, Name: "Jane Doe", Email: "jane@acme.com", LinkedIn: "https://linkedin.com/in/janedoe", Location: "Boston"},
		},
		Phone: "+1 (555) 123-4567",
	}
}

func TestRun_FillsEmptyCells(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn, "CFO Name"},
		Rows: []dataset.Row{
			{model.FirmColumn: "Acme", "CFO Name": ""},
		},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, 5, stats.Filled)
	assert.Equal(t, "Jane Doe", table.Rows[0]["CFO Name"])
	assert.Equal(t, "jane@acme.com", table.Rows[0]["CFO Email"])
	assert.Equal(t, "+1 (555) 123-4567", table.Rows[0][model.PhoneColumn])
	// The firm name column is untouched.
	assert.Equal(t, "Acme", table.Rows[0][model.FirmColumn])
}

func TestRun_NeverOverwritesExistingValues(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn, "CFO Name", "CFO Email"},
		Rows: []dataset.Row{
			{model.FirmColumn: "Acme", "CFO Name": "Existing Name", "CFO Email": model.Sentinel},
		},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{})
	_, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	// Pre-existing value survives even though the fetch differs.
	assert.Equal(t, "Existing Name", table.Rows[0]["CFO Name"])
	// Sentinel cells are fillable.
	assert.Equal(t, "jane@acme.com", table.Rows[0]["CFO Email"])
}

func TestRun_Idempotent(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil)

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows:    []dataset.Row{{model.FirmColumn: "Acme"}},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{})
	_, err := engine.Run(context.Background(), table)
	require.NoError(t, err)

	first := make(dataset.Row, len(table.Rows[0]))
	for k, v := range table.Rows[0] {
		first[k] = v
	}

	// Second pass over the filled output changes nothing.
	_, err = engine.Run(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, first, table.Rows[0])
}

func TestRun_SkipsRowsWithoutFirmName(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows: []dataset.Row{
			{model.FirmColumn: "  "},
			{},
			{model.FirmColumn: "Acme"},
		},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, stats.Processed)
	fetcher.AssertNumberOfCalls(t, "CompanyInfo", 1)
}

func TestRun_LookupFailureDoesNotAbort(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Broken Co").
		Return(model.CompanyRecord{}, eris.New("search down")).Once()
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows: []dataset.Row{
			{model.FirmColumn: "Broken Co"},
			{model.FirmColumn: "Acme"},
		},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "Jane Doe", table.Rows[1]["CFO Name"])
	// The failed row keeps its cells untouched.
	_, ok := table.Rows[0]["CFO Name"]
	assert.False(t, ok)
}

func TestRun_CustomFirmColumn(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()

	table := &dataset.Table{
		Columns: []string{"Company"},
		Rows:    []dataset.Row{{"Company": "Acme"}},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{FirmColumn: "Company"})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
}

func TestRun_CacheHitSkipsFetch(t *testing.T) {
	fetcher := &mockFetcher{}
	st := &mockStore{}

	st.On("GetCached", mock.Anything, "Acme").Return(map[string]string{"CFO Name": "Cached Name"}, nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows:    []dataset.Row{{model.FirmColumn: "Acme"}},
	}

	engine := NewEngine(fetcher, st, EngineOptions{CacheTTL: time.Hour})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "Cached Name", table.Rows[0]["CFO Name"])
	fetcher.AssertNotCalled(t, "CompanyInfo", mock.Anything, mock.Anything)
	st.AssertExpectations(t)
}

func TestRun_CacheMissFetchesAndRecords(t *testing.T) {
	fetcher := &mockFetcher{}
	st := &mockStore{}

	st.On("GetCached", mock.Anything, "Acme").Return(nil, nil).Once()
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()
	st.On("Record", mock.Anything, "Acme", mock.Anything, time.Hour).Return(nil).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows:    []dataset.Row{{model.FirmColumn: "Acme"}},
	}

	engine := NewEngine(fetcher, st, EngineOptions{CacheTTL: time.Hour})
	_, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	st.AssertExpectations(t)
	fetcher.AssertExpectations(t)
}

func TestRun_StoreFailureDegradesToFetch(t *testing.T) {
	fetcher := &mockFetcher{}
	st := &mockStore{}

	st.On("GetCached", mock.Anything, "Acme").Return(nil, eris.New("db locked")).Once()
	fetcher.On("CompanyInfo", mock.Anything, "Acme").Return(acmeRecord(), nil).Once()
	st.On("Record", mock.Anything, "Acme", mock.Anything, mock.Anything).Return(eris.New("db locked")).Once()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows:    []dataset.Row{{model.FirmColumn: "Acme"}},
	}

	engine := NewEngine(fetcher, st, EngineOptions{})
	stats, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, "Jane Doe", table.Rows[0]["CFO Name"])
}

func TestRun_PacingDelayBetweenRows(t *testing.T) {
	fetcher := &mockFetcher{}
	fetcher.On("CompanyInfo", mock.Anything, mock.Anything).Return(acmeRecord(), nil)

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows: []dataset.Row{
			{model.FirmColumn: "Acme"},
			{model.FirmColumn: "Globex"},
		},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{Delay: 50 * time.Millisecond})
	start := time.Now()
	_, err := engine.Run(context.Background(), table)

	require.NoError(t, err)
	// One wait after each of the two rows.
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRun_CancelledContext(t *testing.T) {
	fetcher := &mockFetcher{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher.On("CompanyInfo", mock.Anything, mock.Anything).
		Return(model.CompanyRecord{}, ctx.Err()).Maybe()

	table := &dataset.Table{
		Columns: []string{model.FirmColumn},
		Rows:    []dataset.Row{{model.FirmColumn: "Acme"}, {model.FirmColumn: "Globex"}},
	}

	engine := NewEngine(fetcher, nil, EngineOptions{Delay: time.Minute})
	_, err := engine.Run(ctx, table)

	require.Error(t, err)
}

func TestFillRow(t *testing.T) {
	tests := []struct {
		name   string
		row    dataset.Row
		fields map[string]string
		want   dataset.Row
		filled int
	}{
		{
			name:   "absent cell filled",
			row:    dataset.Row{},
			fields: map[string]string{"CFO Name": "Jane Doe"},
			want:   dataset.Row{"CFO Name": "Jane Doe"},
			filled: 1,
		},
		{
			name:   "empty cell filled",
			row:    dataset.Row{"CFO Name": ""},
			fields: map[string]string{"CFO Name": "Jane Doe"},
			want:   dataset.Row{"CFO Name": "Jane Doe"},
			filled: 1,
		},
		{
			name:   "sentinel cell filled",
			row:    dataset.Row{"CFO Name": "-"},
			fields: map[string]string{"CFO Name": "Jane Doe"},
			want:   dataset.Row{"CFO Name": "Jane Doe"},
			filled: 1,
		},
		{
			name:   "existing value kept",
			row:    dataset.Row{"CFO Name": "Existing"},
			fields: map[string]string{"CFO Name": "Jane Doe"},
			want:   dataset.Row{"CFO Name": "Existing"},
			filled: 0,
		},
		{
			name:   "whitespace-only cell treated as empty",
			row:    dataset.Row{"CFO Name": "  "},
			fields: map[string]string{"CFO Name": "Jane Doe"},
			want:   dataset.Row{"CFO Name": "Jane Doe"},
			filled: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fillRow(tc.row, tc.fields)
			assert.Equal(t, tc.filled, got)
			assert.Equal(t, tc.want, tc.row)
		})
	}
}
