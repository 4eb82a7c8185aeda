package handler

import (
	"net/http"
	"strconv"

	"github.com/Dev-MJBS/capelo-club-backend/internal/service"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type StatHandler struct {
	statService service.StatService
}

func NewStatHandler(statService service.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetMemberCount(c *gin.Context) {
	total, err := h.statService.TotalMembers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_members": total})
}

func (h *StatHandler) GetTrendingThreads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 || limit > 20 {
		limit = 5
	}

	threads, err := h.statService.TrendingThreads(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": threads})
}
