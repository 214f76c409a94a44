package app

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"godescribe/adapters/export"
	"godescribe/adapters/stats/engine"
	"godescribe/domain/core"
	"godescribe/domain/describe"
	"godescribe/domain/run"
	"godescribe/domain/table"
	"godescribe/internal/errors"
	"godescribe/ports"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	args := m.Called(ctx)
	loaded, _ := args.Get(0).(*ports.LoadedTable)
	return loaded, args.Error(1)
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) Format() string { return "mock" }

func (m *mockWriter) Write(ctx context.Context, report *run.Report) ([]string, error) {
	args := m.Called(ctx, report)
	paths, _ := args.Get(0).([]string)
	return paths, args.Error(1)
}

func adsLoader(t *testing.T) *mockLoader {
	t.Helper()
	tbl, err := table.NewTable([]string{"page_id", "ad_id", "spend"}, [][]string{
		{"1", "a", "10"},
		{"1", "a", "20"},
		{"2", "b", ""},
	})
	require.NoError(t, err)

	l := &mockLoader{}
	l.On("Load", mock.Anything).Return(&ports.LoadedTable{Table: tbl, Source: "ads.csv", Hash: core.NewHash([]byte("ads"))}, nil)
	return l
}

var defaultKeySets = []describe.KeySet{
	{Name: "by_page", Columns: []string{"page_id"}},
	{Name: "by_page_ad", Columns: []string{"page_id", "ad_id"}},
}

func TestDescribeRunsAllPasses(t *testing.T) {
	loader := adsLoader(t)
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig(), Workers: 2, CodeVersion: "test"}, nil)

	report, err := svc.Describe(context.Background(), DescribeRequest{Loader: loader, KeySets: defaultKeySets})
	require.NoError(t, err)
	loader.AssertExpectations(t)

	assert.Equal(t, 3, report.Overall.DatasetInfo.TotalRows)
	require.Len(t, report.Groupings, 2)
	assert.Equal(t, "by_page", report.Groupings[0].KeySet.Name)
	assert.Equal(t, 2, report.Groupings[0].Results.Len())
	assert.Equal(t, "by_page_ad", report.Groupings[1].KeySet.Name)

	m := report.Manifest
	require.NoError(t, m.Validate())
	assert.Equal(t, "ads.csv", m.Source)
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 3, m.Columns)
	assert.Equal(t, []run.ExecutedKeySet{
		{Name: "by_page", Columns: []string{"page_id"}, Groups: 2},
		{Name: "by_page_ad", Columns: []string{"page_id", "ad_id"}, Groups: 2},
	}, m.Executed)
	assert.Empty(t, m.Skipped)
	assert.Equal(t, core.NewHash([]byte("ads")), m.Fingerprint.InputHash)
}

func TestDescribeSkipsMissingKeyColumns(t *testing.T) {
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig(), Workers: 4}, nil)

	keySets := append([]describe.KeySet{{Name: "by_campaign", Columns: []string{"page_ids"}}}, defaultKeySets...)
	report, err := svc.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t), KeySets: keySets})
	require.NoError(t, err)

	require.Len(t, report.Groupings, 2)
	require.Len(t, report.Manifest.Skipped, 1)
	sk := report.Manifest.Skipped[0]
	assert.Equal(t, "by_campaign", sk.Name)
	assert.Contains(t, sk.Reason, `"page_ids"`)
	assert.Contains(t, sk.Reason, `did you mean "page_id"?`)
}

func TestDescribeSameResultForBothLayouts(t *testing.T) {
	rows := NewDescribeService(Options{Engine: engine.DefaultConfig(), Workers: 1}, nil)
	cols := NewDescribeService(Options{Engine: engine.DefaultConfig(), Workers: 3, Columnar: true}, nil)

	a, err := rows.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t), KeySets: defaultKeySets})
	require.NoError(t, err)
	b, err := cols.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t), KeySets: defaultKeySets})
	require.NoError(t, err)

	a.Manifest, b.Manifest = nil, nil
	ja, err := a.MarshalJSON()
	require.NoError(t, err)
	jb, err := b.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestDescribeLoadFailure(t *testing.T) {
	loader := &mockLoader{}
	loader.On("Load", mock.Anything).Return(nil, errors.LoadFailed("broken.csv", stderrors.New("bad quote")))

	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	_, err := svc.Describe(context.Background(), DescribeRequest{Loader: loader})
	require.Error(t, err)
	assert.Equal(t, errors.CodeLoadFailed, errors.GetCode(err))

	_, err = svc.Describe(context.Background(), DescribeRequest{})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestDescribeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	_, err := svc.Describe(ctx, DescribeRequest{Loader: adsLoader(t), KeySets: defaultKeySets})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	loaded, c, err := svc.Classify(context.Background(), adsLoader(t))
	require.NoError(t, err)
	assert.Equal(t, "ads.csv", loaded.Source)
	assert.Equal(t, []string{"page_id", "spend"}, c.Numeric)
	assert.Equal(t, []string{"ad_id"}, c.Categorical)
}

func TestPersistWritesFilesThenManifest(t *testing.T) {
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	report, err := svc.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t), KeySets: defaultKeySets})
	require.NoError(t, err)

	dir := t.TempDir()
	target := export.Target{Dir: dir, Basename: "stats_output"}
	files, err := svc.Persist(context.Background(), report,
		[]ports.ReportWriter{export.NewJSONWriter(target, nil)}, export.NewManifestWriter(target))
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "stats_output_overall.json"),
		filepath.Join(dir, "stats_output_by_page.json"),
		filepath.Join(dir, "stats_output_by_page_ad.json"),
		filepath.Join(dir, "stats_output_manifest.json"),
	}, files)
	assert.Len(t, report.Manifest.Files, 3)

	for _, f := range files {
		_, err := os.Stat(f)
		assert.NoError(t, err, f)
	}
}

func TestPersistStopsOnWriterError(t *testing.T) {
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	report, err := svc.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t)})
	require.NoError(t, err)

	failing := &mockWriter{}
	failing.On("Write", mock.Anything, report).Return([]string{"partial.json"}, errors.ExportFailed("x.json", stderrors.New("disk full")))
	never := &mockWriter{}

	files, err := svc.Persist(context.Background(), report, []ports.ReportWriter{failing, never}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeExportFailed, errors.GetCode(err))
	assert.Equal(t, []string{"partial.json"}, files)
	never.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

type mockManifestWriter struct {
	mock.Mock
}

func (m *mockManifestWriter) WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error) {
	args := m.Called(ctx, manifest)
	return args.String(0), args.Error(1)
}

func TestPersistRejectsInconsistentManifest(t *testing.T) {
	svc := NewDescribeService(Options{Engine: engine.DefaultConfig()}, nil)
	report, err := svc.Describe(context.Background(), DescribeRequest{Loader: adsLoader(t)})
	require.NoError(t, err)
	report.Manifest.Columns++

	writer := &mockWriter{}
	manifestWriter := &mockManifestWriter{}

	files, err := svc.Persist(context.Background(), report, []ports.ReportWriter{writer}, manifestWriter)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
	assert.Empty(t, files)
	writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	manifestWriter.AssertNotCalled(t, "WriteManifest", mock.Anything, mock.Anything)
}

func TestSuggestColumn(t *testing.T) {
	cols := []string{"page_id", "ad_id", "spend"}
	assert.Equal(t, "page_id", SuggestColumn("pageid", cols))
	assert.Equal(t, "ad_id", SuggestColumn("ad", cols))
	assert.Equal(t, "", SuggestColumn("campaign_name", cols))
}

func TestResolveKeySets(t *testing.T) {
	runnable, skipped := ResolveKeySets(defaultKeySets, []string{"page_id", "spend"})
	require.Len(t, runnable, 1)
	assert.Equal(t, "by_page", runnable[0].Name)
	require.Len(t, skipped, 1)
	assert.Equal(t, "by_page_ad", skipped[0].Name)
	assert.Contains(t, skipped[0].Reason, `unknown column "ad_id"`)
}
