package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
	"time"

	"godescribe/domain/table"
)

// AdsGeneratorConfig configures the ad performance table generator
type AdsGeneratorConfig struct {
	Pages      int       `json:"pages"`
	AdsPerPage int       `json:"ads_per_page"`
	DaysPerAd  int       `json:"days_per_ad"`
	BlankRate  float64   `json:"blank_rate"` // share of spend cells left empty
	StartDate  time.Time `json:"start_date"`
	Seed       int64     `json:"seed"`
}

// DefaultAdsConfig returns a small, deterministic configuration
func DefaultAdsConfig() AdsGeneratorConfig {
	return AdsGeneratorConfig{
		Pages:      5,
		AdsPerPage: 4,
		DaysPerAd:  10,
		BlankRate:  0.05,
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:       42,
	}
}

// AdsColumns is the header of every generated table
var AdsColumns = []string{"page_id", "ad_id", "date", "country", "placement", "impressions", "clicks", "spend"}

var (
	countries  = []string{"US", "DE", "FR", "BR", "IN", "JP"}
	placements = []string{"feed", "stories", "reels", "search"}
)

// AdsGenerator produces synthetic daily ad performance rows
type AdsGenerator struct {
	config AdsGeneratorConfig
	rng    *rand.Rand
}

// NewAdsGenerator creates a generator; the same config always yields the same rows
func NewAdsGenerator(config AdsGeneratorConfig) *AdsGenerator {
	return &AdsGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Rows returns the generated rows without a header
func (g *AdsGenerator) Rows() [][]string {
	rows := make([][]string, 0, g.config.Pages*g.config.AdsPerPage*g.config.DaysPerAd)

	for p := 0; p < g.config.Pages; p++ {
		pageID := strconv.Itoa(1000 + p)
		country := countries[g.rng.Intn(len(countries))]

		for a := 0; a < g.config.AdsPerPage; a++ {
			adID := fmt.Sprintf("ad_%d_%02d", p+1, a+1)
			placement := placements[g.rng.Intn(len(placements))]
			baseCTR := 0.005 + g.rng.Float64()*0.03
			cpm := 2 + g.rng.Float64()*8

			for d := 0; d < g.config.DaysPerAd; d++ {
				impressions := int(math.Max(0, 5000+g.rng.NormFloat64()*1500))
				clicks := int(float64(impressions) * baseCTR)
				spend := ""
				if g.rng.Float64() >= g.config.BlankRate {
					spend = strconv.FormatFloat(float64(impressions)/1000*cpm, 'f', 2, 64)
				}

				rows = append(rows, []string{
					pageID,
					adID,
					g.config.StartDate.AddDate(0, 0, d).Format("2006-01-02"),
					country,
					placement,
					strconv.Itoa(impressions),
					strconv.Itoa(clicks),
					spend,
				})
			}
		}
	}
	return rows
}

// Table builds an in-memory table from the generated rows
func (g *AdsGenerator) Table() (*table.Table, error) {
	return table.NewTable(AdsColumns, g.Rows())
}

// WriteCSV writes the header and generated rows as CSV
func (g *AdsGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AdsColumns); err != nil {
		return err
	}
	if err := cw.WriteAll(g.Rows()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
