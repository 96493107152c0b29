// File: mastera/handlers/admin_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mastera/models"
	"mastera/services/stats"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStats struct {
	overview *stats.Overview
	masters  []models.Master
}

func (s *stubStats) Overview(ctx context.Context) (*stats.Overview, error) {
	return s.overview, nil
}

func (s *stubStats) TopMasters(ctx context.Context, limit int64) ([]models.Master, error) {
	return s.masters, nil
}

func (s *stubStats) MasterStats(ctx context.Context, masterID int64) (stats.MasterFunnel, error) {
	return stats.MasterFunnel{}, nil
}

type stubComplaints struct {
	latest []models.Complaint
}

func (s *stubComplaints) Create(*models.Complaint) error { return nil }

func (s *stubComplaints) Latest(limit int64) ([]models.Complaint, error) {
	return s.latest, nil
}

func newTestRouter(h *AdminHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stats", h.GetStatsHandler)
	r.GET("/masters", h.GetTopMastersHandler)
	r.GET("/complaints", h.GetComplaintsHandler)
	return r
}

func TestGetStatsHandler(t *testing.T) {
	h := NewAdminHandler(&stubStats{overview: &stats.Overview{
		RequestsByStatus: map[string]int64{models.RequestStatusNew: 2, models.RequestStatusCompleted: 5},
		MastersTotal:     10,
		MastersActive:    8,
		ReviewsCount:     4,
		AvgRating:        4.7,
	}}, &stubComplaints{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got stats.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(10), got.MastersTotal)
	assert.Equal(t, int64(2), got.RequestsByStatus[models.RequestStatusNew])
	assert.Equal(t, 4.7, got.AvgRating)
}

func TestGetTopMastersHandlerHidesSensitiveFields(t *testing.T) {
	h := NewAdminHandler(&stubStats{masters: []models.Master{{
		ID:                 1,
		FullName:           "Иван Петров",
		Phone:              "+79991234567",
		TaxID:              "771234567890",
		PassportScanFileID: "passport-file-id",
		Level:              models.LevelVerified,
		SkillTier:          models.SkillTierMaster,
		AvgRating:          4.9,
		IsActive:           true,
	}}}, &stubComplaints{})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/masters", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Иван Петров")
	assert.NotContains(t, body, "+79991234567")
	assert.NotContains(t, body, "771234567890")
	assert.NotContains(t, body, "passport-file-id")
}

func TestGetTopMastersHandlerLimitValidation(t *testing.T) {
	h := NewAdminHandler(&stubStats{}, &stubComplaints{})
	r := newTestRouter(h)

	for _, limit := range []string{"0", "101", "-5", "abc"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/masters?limit="+limit, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s", limit)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/masters?limit=5", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetComplaintsHandler(t *testing.T) {
	h := NewAdminHandler(&stubStats{}, &stubComplaints{latest: []models.Complaint{
		{ID: 1, ClientID: 900, Text: "[клиент] Мастер не пришёл"},
	}})
	r := newTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/complaints", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(900), got[0].ClientID)
}
