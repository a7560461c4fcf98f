package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) usersGetProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	profile, err := h.services.User.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", profile))
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.services.User.UpdateProfile(c.Request.Context(), actor.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Profile updated successfully", gin.H{"user": user}))
}

func (h *Handler) usersUploadProfilePicture(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	file, fileHeader, err := c.Request.FormFile("profilePicture")
	if err != nil {
		respondValidationError(c, err)
		return
	}
	defer file.Close()

	url, err := h.services.User.UploadProfilePicture(c.Request.Context(), actor.ID, file, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Profile picture updated successfully", gin.H{"profile_picture": url}))
}

func (h *Handler) usersUploadCoverPhoto(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	file, fileHeader, err := c.Request.FormFile("coverPhoto")
	if err != nil {
		respondValidationError(c, err)
		return
	}
	defer file.Close()

	url, err := h.services.User.UploadCoverPhoto(c.Request.Context(), actor.ID, file, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Cover photo updated successfully", gin.H{"cover_photo": url}))
}

func (h *Handler) usersFollow(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	if err := h.services.User.Follow(c.Request.Context(), actor.ID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Successfully followed user", nil))
}

func (h *Handler) usersUnfollow(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	targetID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	if err := h.services.User.Unfollow(c.Request.Context(), actor.ID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Successfully unfollowed user", nil))
}

func (h *Handler) usersGetFollowers(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	followers, err := h.services.User.Followers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", gin.H{"followers": followers}))
}

func (h *Handler) usersGetFollowing(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	following, err := h.services.User.Following(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", gin.H{"following": following}))
}

func (h *Handler) usersSearch(c *gin.Context) {
	users, err := h.services.User.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", gin.H{"users": users}))
}
