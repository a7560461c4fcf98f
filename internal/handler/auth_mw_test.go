package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubUserService struct {
	service.User
	summaries map[primitive.ObjectID]model.UserSummary
}

func (s *stubUserService) Summary(ctx context.Context, id primitive.ObjectID) (*model.UserSummary, error) {
	summary, ok := s.summaries[id]
	if !ok {
		return nil, service.ErrUserNotFound
	}
	return &summary, nil
}

func newAuthTestRouter(t *testing.T, actorID primitive.ObjectID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(&service.Service{
		User: &stubUserService{summaries: map[primitive.ObjectID]model.UserSummary{
			actorID: {ID: actorID, Username: "alice"},
		}},
	})

	r := gin.New()
	r.GET("/protected", h.authMiddleware, func(c *gin.Context) {
		actor := h.getActorFromRequest(c)
		require.NotNil(t, actor)
		c.String(http.StatusOK, actor.Username)
	})
	return r
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-secret")

	actorID := primitive.NewObjectID()
	r := newAuthTestRouter(t, actorID)

	token := signToken(t, "test-secret", jwt.MapClaims{"id": actorID.Hex()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := newAuthTestRouter(t, primitive.NewObjectID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-secret")

	actorID := primitive.NewObjectID()
	r := newAuthTestRouter(t, actorID)

	token := signToken(t, "wrong-secret", jwt.MapClaims{"id": actorID.Hex()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UnknownActor(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-secret")

	r := newAuthTestRouter(t, primitive.NewObjectID())

	token := signToken(t, "test-secret", jwt.MapClaims{"id": primitive.NewObjectID().Hex()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
