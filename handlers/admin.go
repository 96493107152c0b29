// File: mastera/handlers/admin.go
package handlers

import (
	"net/http"
	"strconv"

	complaintRepo "mastera/database/repository/complaint"
	"mastera/models"
	"mastera/services/stats"
	"mastera/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the operational read endpoints.
type AdminHandler struct {
	Stats      stats.Service
	Complaints complaintRepo.ComplaintRepository
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(st stats.Service, cr complaintRepo.ComplaintRepository) *AdminHandler {
	return &AdminHandler{Stats: st, Complaints: cr}
}

// GetStatsHandler returns the marketplace overview.
func (ah *AdminHandler) GetStatsHandler(c *gin.Context) {
	overview, err := ah.Stats.Overview(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to assemble stats overview", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to assemble stats", err.Error())
		return
	}
	c.JSON(http.StatusOK, overview)
}

// masterSummary is a master record with sensitive fields excluded.
type masterSummary struct {
	ID              int64    `json:"id"`
	FullName        string   `json:"full_name"`
	Categories      []string `json:"categories"`
	Level           string   `json:"level"`
	SkillTier       string   `json:"skill_tier"`
	AvgRating       float64  `json:"avg_rating"`
	ReviewsCount    int      `json:"reviews_count"`
	OrdersCompleted int      `json:"orders_completed"`
	IsActive        bool     `json:"is_active"`
}

func summarizeMasters(masters []models.Master) []masterSummary {
	out := make([]masterSummary, 0, len(masters))
	for _, m := range masters {
		out = append(out, masterSummary{
			ID:              m.ID,
			FullName:        m.FullName,
			Categories:      m.Categories,
			Level:           m.Level,
			SkillTier:       m.SkillTier,
			AvgRating:       m.AvgRating,
			ReviewsCount:    m.ReviewsCount,
			OrdersCompleted: m.OrdersCompleted,
			IsActive:        m.IsActive,
		})
	}
	return out
}

// GetTopMastersHandler returns the best-rated active masters.
func (ah *AdminHandler) GetTopMastersHandler(c *gin.Context) {
	limit := int64(10)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 100 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid limit", "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	masters, err := ah.Stats.TopMasters(c.Request.Context(), limit)
	if err != nil {
		zap.L().Error("Failed to fetch top masters", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch masters", err.Error())
		return
	}
	c.JSON(http.StatusOK, summarizeMasters(masters))
}

// GetComplaintsHandler returns the most recent complaints.
func (ah *AdminHandler) GetComplaintsHandler(c *gin.Context) {
	complaints, err := ah.Complaints.Latest(50)
	if err != nil {
		zap.L().Error("Failed to fetch complaints", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch complaints", err.Error())
		return
	}
	c.JSON(http.StatusOK, complaints)
}
