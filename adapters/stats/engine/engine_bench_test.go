package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"godescribe/domain/table"
	"godescribe/internal/testkit"
)

func benchTable(b *testing.B) *table.Table {
	config := testkit.DefaultAdsConfig()
	config.Pages = 50
	config.DaysPerAd = 30
	tbl, err := testkit.NewAdsGenerator(config).Table()
	require.NoError(b, err)
	return tbl
}

func BenchmarkOverall(b *testing.B) {
	tbl := benchTable(b)
	e := NewStatsEngine(DefaultConfig())
	cls := e.Classify(tbl)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Overall(tbl, cls)
	}
}

func BenchmarkGroupByCompositeKey(b *testing.B) {
	for _, layout := range []string{"rows", "columns"} {
		b.Run(layout, func(b *testing.B) {
			var view table.View = benchTable(b)
			if layout == "columns" {
				view = table.NewColumnar(view)
			}
			e := NewStatsEngine(DefaultConfig())
			cls := e.Classify(view)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.GroupBy(view, []string{"page_id", "ad_id"}, cls)
			}
		})
	}
}

func TestGeneratedAdsClassification(t *testing.T) {
	tbl, err := testkit.NewAdsGenerator(testkit.DefaultAdsConfig()).Table()
	require.NoError(t, err)

	cls := NewStatsEngine(DefaultConfig()).Classify(tbl)
	require.Equal(t, []string{"page_id", "impressions", "clicks", "spend"}, cls.Numeric)
	require.Equal(t, []string{"ad_id", "date", "country", "placement"}, cls.Categorical)
}
