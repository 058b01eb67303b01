package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/authcheck-api/internal/domain"
)

type mockReportArchive struct{ mock.Mock }

func (m *mockReportArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, _ := args.Get(0).(io.ReadCloser); rc != nil {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func reportRequest(guildID, reportID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/guilds/"+guildID+"/reports/"+reportID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("guildID", guildID)
	rctx.URLParams.Add("reportID", reportID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetReport_StreamsArchivedJSON(t *testing.T) {
	archived := `{"report_id":"rpt-1","requester_id":"req-1","clean":true}`
	archive := new(mockReportArchive)
	archive.On("Get", mock.Anything, "reports/guild-1/rpt-1.json").
		Return(io.NopCloser(strings.NewReader(archived)), nil)

	h := NewReportsHandler(archive)
	rr := httptest.NewRecorder()
	h.Get(rr, reportRequest("guild-1", "rpt-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "rpt-1", got["report_id"])
	archive.AssertExpectations(t)
}

func TestGetReport_NotFound(t *testing.T) {
	archive := new(mockReportArchive)
	archive.On("Get", mock.Anything, "reports/guild-1/missing.json").Return(nil, domain.ErrNotFound)

	h := NewReportsHandler(archive)
	rr := httptest.NewRecorder()
	h.Get(rr, reportRequest("guild-1", "missing"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetReport_ArchiveFailure(t *testing.T) {
	archive := new(mockReportArchive)
	archive.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	h := NewReportsHandler(archive)
	rr := httptest.NewRecorder()
	h.Get(rr, reportRequest("guild-1", "rpt-1"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetReport_ArchiveNotConfigured(t *testing.T) {
	h := NewReportsHandler(nil)
	rr := httptest.NewRecorder()
	h.Get(rr, reportRequest("guild-1", "rpt-1"))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
