package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"godescribe/app"
	"godescribe/domain/describe"
	"godescribe/internal/errors"
)

// handleDescribe accepts a multipart upload ("file") and returns the full report.
// Optional form fields: format, group_by (repeatable "name=col1,col2"),
// sample_rows, sheet, delimiter, data_path.
func (s *Server) handleDescribe(c *gin.Context) {
	loader, err := s.uploadLoader(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	keySets := s.defaults.KeySets
	if specs := c.PostFormArray("group_by"); len(specs) > 0 {
		keySets, err = describe.ParseKeySets(strings.Join(specs, ";"))
		if err != nil {
			s.writeError(c, errors.InvalidInput(fmt.Sprintf("group_by: %v", err)))
			return
		}
	}

	options := s.options
	if raw := c.PostForm("sample_rows"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(c, errors.InvalidInput("sample_rows must be a non-negative integer"))
			return
		}
		options.Engine.SampleRows = n
	}

	svc := app.NewDescribeService(options, s.logger)
	report, err := svc.Describe(c.Request.Context(), app.DescribeRequest{Loader: loader, KeySets: keySets})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleClassify returns only the column classification of an upload
func (s *Server) handleClassify(c *gin.Context) {
	loader, err := s.uploadLoader(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	svc := app.NewDescribeService(s.options, s.logger)
	loaded, classification, err := svc.Classify(c.Request.Context(), loader)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"source":         loaded.Source,
		"rows":           loaded.Table.Len(),
		"classification": classification,
	})
}

// StatusFor maps an application error code to an HTTP status
func StatusFor(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeLoadFailed:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}
