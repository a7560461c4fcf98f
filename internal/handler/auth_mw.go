package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/service"
	"github.com/socialapp/social-service/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	actor, err := h.actorFromAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(string(service.KindUnauthorized), errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set("user", *actor)

	c.Next()
}

// notRequiredAuthMiddleware attaches the actor when a valid token is
// present and stays silent otherwise.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	actor, err := h.actorFromAccessToken(c)
	if err == nil {
		c.Set("user", *actor)
	}

	c.Next()
}

func (h *Handler) actorFromAccessToken(c *gin.Context) (*model.UserSummary, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errNotAuthorized
	}

	accessToken := strings.TrimPrefix(header, "Bearer ")
	if accessToken == "" {
		return nil, errNotAuthorized
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, err
	}

	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}

	id, err := primitive.ObjectIDFromHex(idString)
	if err != nil {
		return nil, err
	}

	return h.services.User.Summary(c.Request.Context(), id)
}
