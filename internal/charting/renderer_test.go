package charting

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartdeck/internal/dataset"
	"chartdeck/internal/logging"
	"chartdeck/internal/storage"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

type countingPlotter struct {
	calls int
	err   error
	panic bool
}

func (p *countingPlotter) Plot(fig *Figure) ([]byte, error) {
	p.calls++
	if p.panic {
		panic("index out of range")
	}
	if p.err != nil {
		return nil, p.err
	}
	return append(append([]byte{}, pngMagic...), []byte(fig.Title)...), nil
}

type memoryArtifacts struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func newMemoryArtifacts() *memoryArtifacts {
	return &memoryArtifacts{puts: map[string][]byte{}}
}

func (m *memoryArtifacts) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[key] = data
	return nil
}

func (m *memoryArtifacts) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts[key], nil
}

func (m *memoryArtifacts) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.puts, key)
	return nil
}

func salesData(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ParseCSV(strings.NewReader(
		"month,sales,profit,region\n1,100,20,north\n2,120,25,south\n3,90,10,east\n4,150,40,west\n",
	))
	require.NoError(t, err)
	return ds
}

func newTestRenderer(plotter Plotter, store storage.Store) *Renderer {
	return NewRenderer(plotter, store, logging.Discard())
}

func TestRenderer_XYChartsProduceOneArtifact(t *testing.T) {
	for _, chartType := range []string{"line", "scatter", "area"} {
		for _, ys := range [][]string{{"sales"}, {"sales", "profit"}} {
			t.Run(chartType+"/"+strings.Join(ys, "+"), func(t *testing.T) {
				store := newMemoryArtifacts()
				r := newTestRenderer(NewPlotter(), store)

				res, err := r.Render(context.Background(), salesData(t), chartType, ColumnSelection{X: cols("month"), Y: ys})
				require.NoError(t, err)
				require.False(t, res.Rejected(), res.Rejection)

				assert.True(t, bytes.HasPrefix(res.Image, pngMagic))
				require.Len(t, store.puts, 1)
				assert.Equal(t, res.Image, store.puts[res.ArtifactKey])
				assert.True(t, strings.HasPrefix(res.ArtifactKey, "charts/"))
			})
		}
	}
}

func TestRenderer_CardinalityRejectionsStoreNothing(t *testing.T) {
	tests := []struct {
		chartType string
		sel       ColumnSelection
	}{
		{"bar", ColumnSelection{X: cols("month"), Y: cols("sales", "profit")}},
		{"bar", ColumnSelection{X: cols("month", "region"), Y: cols("sales")}},
		{"pie", ColumnSelection{Category: cols("region"), Value: cols("sales", "profit")}},
		{"pie", ColumnSelection{Category: cols("region", "month"), Value: cols("sales")}},
	}

	for _, tt := range tests {
		t.Run(tt.chartType, func(t *testing.T) {
			plotter := &countingPlotter{}
			store := newMemoryArtifacts()
			r := newTestRenderer(plotter, store)

			res, err := r.Render(context.Background(), salesData(t), tt.chartType, tt.sel)
			require.NoError(t, err)
			assert.True(t, res.Rejected())
			assert.Contains(t, res.Rejection, tt.chartType)
			assert.Nil(t, res.Image)
			assert.Empty(t, store.puts)
			assert.Zero(t, plotter.calls)
		})
	}
}

func TestRenderer_Radar(t *testing.T) {
	plotter := &countingPlotter{}
	r := newTestRenderer(plotter, newMemoryArtifacts())

	for _, sel := range []ColumnSelection{{}, {X: cols("month"), Y: cols("sales")}} {
		res, err := r.Render(context.Background(), salesData(t), "radar", sel)
		require.NoError(t, err)
		assert.Contains(t, res.Rejection, "not yet implemented")
	}
	assert.Zero(t, plotter.calls)
}

func TestRenderer_UnknownType(t *testing.T) {
	r := newTestRenderer(&countingPlotter{}, newMemoryArtifacts())

	res, err := r.Render(context.Background(), salesData(t), "sunburst", ColumnSelection{X: cols("month"), Y: cols("sales")})
	require.NoError(t, err)
	assert.Contains(t, res.Rejection, "sunburst")
}

func TestRenderer_EmptyDatasetSkipsPlotting(t *testing.T) {
	plotter := &countingPlotter{}
	store := newMemoryArtifacts()
	r := newTestRenderer(plotter, store)
	empty := &dataset.Dataset{Columns: []string{"month", "sales"}}

	res, err := r.Render(context.Background(), empty, "line", ColumnSelection{X: cols("month"), Y: cols("sales")})
	require.NoError(t, err)
	assert.Equal(t, NoDataMessage, res.Rejection)
	assert.Zero(t, plotter.calls)
	assert.Empty(t, store.puts)
}

func TestRenderer_DataProblemsAreRejections(t *testing.T) {
	tests := []struct {
		name      string
		chartType string
		sel       ColumnSelection
		wantMsg   string
	}{
		{"missing column", "line", ColumnSelection{X: cols("month"), Y: cols("revenue")}, `"revenue" not found`},
		{"text y column", "scatter", ColumnSelection{X: cols("month"), Y: cols("region")}, `"region"`},
		{"missing pie category", "pie", ColumnSelection{Category: cols("city"), Value: cols("sales")}, `"city" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plotter := &countingPlotter{}
			r := newTestRenderer(plotter, newMemoryArtifacts())

			res, err := r.Render(context.Background(), salesData(t), tt.chartType, tt.sel)
			require.NoError(t, err)
			assert.Contains(t, res.Rejection, tt.wantMsg)
			assert.Contains(t, res.Rejection, tt.chartType)
			assert.Zero(t, plotter.calls)
		})
	}
}

func TestRenderer_PlotterFailureIsRejection(t *testing.T) {
	for _, plotter := range []*countingPlotter{{err: stderrors.New("zero range")}, {panic: true}} {
		store := newMemoryArtifacts()
		r := newTestRenderer(plotter, store)

		res, err := r.Render(context.Background(), salesData(t), "line", ColumnSelection{X: cols("month"), Y: cols("sales")})
		require.NoError(t, err)
		assert.Contains(t, res.Rejection, "line chart")
		assert.Equal(t, 1, plotter.calls)
		assert.Empty(t, store.puts)
	}
}

func TestRenderer_StoreFailureIsError(t *testing.T) {
	store := newMemoryArtifacts()
	store.err = stderrors.New("disk full")
	r := newTestRenderer(&countingPlotter{}, store)

	_, err := r.Render(context.Background(), salesData(t), "line", ColumnSelection{X: cols("month"), Y: cols("sales")})
	assert.ErrorIs(t, err, store.err)
}

func TestRenderer_ConcurrentRendersUseDistinctKeys(t *testing.T) {
	store := newMemoryArtifacts()
	r := newTestRenderer(&countingPlotterSafe{}, store)
	ds := salesData(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Render(context.Background(), ds, "line", ColumnSelection{X: cols("month"), Y: cols("sales")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, store.puts, 8)
}

type countingPlotterSafe struct{}

func (countingPlotterSafe) Plot(*Figure) ([]byte, error) {
	return pngMagic, nil
}
