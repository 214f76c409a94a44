package testkit

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdsGenerator_Deterministic(t *testing.T) {
	config := DefaultAdsConfig()

	a := NewAdsGenerator(config).Rows()
	b := NewAdsGenerator(config).Rows()
	assert.Equal(t, a, b)
	assert.Len(t, a, config.Pages*config.AdsPerPage*config.DaysPerAd)

	config.Seed = 7
	assert.NotEqual(t, a, NewAdsGenerator(config).Rows())
}

func TestAdsGenerator_Table(t *testing.T) {
	config := DefaultAdsConfig()
	config.BlankRate = 1

	tbl, err := NewAdsGenerator(config).Table()
	require.NoError(t, err)

	assert.Equal(t, AdsColumns, tbl.Columns())
	for i := 0; i < tbl.Len(); i++ {
		assert.Empty(t, tbl.Cell(i, "spend"))
	}
}

func TestAdsGenerator_WriteCSV(t *testing.T) {
	config := DefaultAdsConfig()
	config.Pages = 1
	config.AdsPerPage = 1
	config.DaysPerAd = 3

	var buf bytes.Buffer
	require.NoError(t, NewAdsGenerator(config).WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, AdsColumns, records[0])
	assert.Equal(t, "2024-01-03", records[3][2])
}

func TestStaticLoader(t *testing.T) {
	loader, err := AdsLoader(DefaultAdsConfig())
	require.NoError(t, err)

	loaded, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "generated_ads.csv", loaded.Source)
	assert.False(t, loaded.Hash.IsEmpty())
	assert.Equal(t, 1, loader.Calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
