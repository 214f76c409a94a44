package main

import (
	"strings"

	jsonsource "godescribe/adapters/api"
	"godescribe/adapters/db"
	"godescribe/adapters/excel"
	"godescribe/internal"
	"godescribe/internal/config"
	"godescribe/ports"
)

// newLoader picks a table loader for the configured source
func newLoader(cfg *config.Config, logger *internal.Logger) (ports.TableLoader, error) {
	if err := cfg.ValidateSource(); err != nil {
		return nil, err
	}
	if cfg.Database.DSN != "" {
		return db.NewQueryLoader(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Query, logger), nil
	}

	format := excel.DetectFileType(cfg.Input.Path, cfg.Input.Format)
	if format == "json" || (jsonsource.IsURL(cfg.Input.Path) && strings.EqualFold(cfg.Input.Format, "auto")) {
		rc := jsonsource.DefaultRecordsConfig(cfg.Input.Path)
		rc.DataPath = cfg.Input.DataPath
		return jsonsource.NewRecordsReader(rc, logger), nil
	}

	rc := excel.DefaultReaderConfig(cfg.Input.Path)
	rc.FileType = format
	rc.Sheet = cfg.Input.Sheet
	rc.Delimiter = cfg.Delimiter()
	return excel.NewDataReader(rc, logger), nil
}
