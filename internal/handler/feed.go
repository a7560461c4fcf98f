package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/dto"
)

func (h *Handler) feedHome(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	var input dto.PageRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	page, err := h.services.Feed.Home(c.Request.Context(), actor.ID, input.Page, input.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", page))
}

func (h *Handler) feedDiscover(c *gin.Context) {
	var input dto.PageRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	page, err := h.services.Feed.Discover(c.Request.Context(), input.Page, input.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", page))
}
