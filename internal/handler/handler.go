package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/service"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		feed := v1.Group("/feed")
		{
			feed.GET("", h.authMiddleware, h.feedHome)
			feed.GET("/discover", h.feedDiscover)
		}

		posts := v1.Group("/posts")
		{
			posts.POST("", h.authMiddleware, h.postsCreate)
			posts.GET("/user/:userId", h.postsGetByAuthor)

			post := posts.Group("/:postId")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsUpdate)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.POST("/unlike", h.authMiddleware, h.postsUnlike)
				post.POST("/comment", h.authMiddleware, h.commentsCreate)
				post.DELETE("/comment/:commentId", h.authMiddleware, h.commentsDelete)
			}
		}

		users := v1.Group("/users")
		{
			users.GET("/search", h.usersSearch)
			users.PUT("/profile", h.authMiddleware, h.usersUpdateProfile)
			users.PUT("/profile-picture", h.authMiddleware, h.usersUploadProfilePicture)
			users.PUT("/cover-photo", h.authMiddleware, h.usersUploadCoverPhoto)

			user := users.Group("/:userId")
			{
				user.GET("", h.usersGetProfile)
				user.POST("/follow", h.authMiddleware, h.usersFollow)
				user.POST("/unfollow", h.authMiddleware, h.usersUnfollow)
				user.GET("/followers", h.usersGetFollowers)
				user.GET("/following", h.usersGetFollowing)
			}
		}
	}

	return r
}

func (h *Handler) getActorFromRequest(c *gin.Context) *model.UserSummary {
	actorReq, _ := c.Get("user")

	actor, ok := actorReq.(model.UserSummary)
	if !ok {
		return nil
	}

	return &actor
}
