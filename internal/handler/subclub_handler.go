package handler

import (
	"net/http"
	"strconv"

	"github.com/Dev-MJBS/capelo-club-backend/internal/dto"
	"github.com/Dev-MJBS/capelo-club-backend/internal/service"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/response"
	"github.com/Dev-MJBS/capelo-club-backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type SubclubHandler struct {
	subclubService service.SubclubService
}

func NewSubclubHandler(subclubService service.SubclubService) *SubclubHandler {
	return &SubclubHandler{subclubService: subclubService}
}

func (h *SubclubHandler) CreateSubclub(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateSubclubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	resp, err := h.subclubService.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *SubclubHandler) GetSubclub(c *gin.Context) {
	resp, err := h.subclubService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SubclubHandler) ListSubclubs(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.subclubService.List(c.Request.Context(), page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SubclubHandler) DeleteSubclub(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.subclubService.Delete(c.Request.Context(), userID, c.Param("slug")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subclub deleted"})
}
