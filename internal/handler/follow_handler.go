package handler

import (
	"net/http"

	"github.com/Dev-MJBS/capelo-club-backend/internal/service"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService service.FollowService
}

func NewFollowHandler(followService service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.followService.Follow(c.Request.Context(), userID, c.Param("username")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "following"})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, c.Param("username")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}
