package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jsonsource "godescribe/adapters/api"
	"godescribe/adapters/excel"
	"godescribe/domain/core"
	"godescribe/internal/errors"
	"godescribe/ports"
)

// uploadLoader parses an uploaded file held in memory
type uploadLoader struct {
	name   string
	format string
	data   []byte
	server *Server
	sheet  string
	delim  rune
	path   string
}

func (l *uploadLoader) Load(ctx context.Context) (*ports.LoadedTable, error) {
	switch l.format {
	case "csv", "xlsx":
		cfg := excel.ReaderConfig{FilePath: l.name, FileType: l.format, Sheet: l.sheet, Delimiter: l.delim}
		return excel.NewDataReader(cfg, l.server.logger).ReadBytes(ctx, l.name, l.data)
	case "json":
		cfg := jsonsource.RecordsConfig{Location: l.name, DataPath: l.path}
		return jsonsource.NewRecordsReader(cfg, l.server.logger).ReadBytes(ctx, l.name, l.data)
	default:
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, l.name))
	}
}

// uploadLoader reads the "file" form field, bounded by the configured upload limit
func (s *Server) uploadLoader(c *gin.Context) (ports.TableLoader, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, errors.WithCode(errors.CodeInvalidInput, err)
		}
		return nil, errors.InvalidInput(fmt.Sprintf("a multipart \"file\" field is required: %v", err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.LoadFailed(header.Filename, err)
	}

	format := strings.ToLower(c.PostForm("format"))
	if format == "" || format == "auto" {
		format = excel.DetectFileType(header.Filename, "auto")
	}

	delim := s.defaults.Delimiter
	if d := []rune(c.PostForm("delimiter")); len(d) == 1 {
		delim = d[0]
	}
	sheet := s.defaults.Sheet
	if v := c.PostForm("sheet"); v != "" {
		sheet = v
	}
	dataPath := s.defaults.DataPath
	if v := c.PostForm("data_path"); v != "" {
		dataPath = v
	}

	return &uploadLoader{
		name:   header.Filename,
		format: format,
		data:   data,
		server: s,
		sheet:  sheet,
		delim:  delim,
		path:   dataPath,
	}, nil
}
