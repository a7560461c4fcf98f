package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socialapp/social-service/internal/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (h *Handler) postsCreate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBind(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["media"]
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), actor.ID, input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse("Post created successfully", gin.H{"post": createdPost}))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	data := gin.H{"post": post}
	if actor := h.getActorFromRequest(c); actor != nil {
		isLiked := false
		for _, id := range post.Post.Likes {
			if id == actor.ID {
				isLiked = true
				break
			}
		}
		data["is_liked"] = isLiked
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", data))
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidationError(c, errInvalidUserID)
		return
	}

	var input dto.PageRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	page, err := h.services.Post.FindAuthorPosts(c.Request.Context(), userID, input.Page, input.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("", page))
}

func (h *Handler) postsUpdate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), actor.ID, postID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Post updated successfully", gin.H{"post": post}))
}

func (h *Handler) postsDelete(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), actor.ID, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Post deleted successfully", nil))
}

func (h *Handler) postsLike(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	likesCount, err := h.services.Post.Like(c.Request.Context(), actor.ID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Post liked successfully", dto.LikesCount{LikesCount: likesCount}))
}

func (h *Handler) postsUnlike(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	likesCount, err := h.services.Post.Unlike(c.Request.Context(), actor.ID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Post unliked successfully", dto.LikesCount{LikesCount: likesCount}))
}

func (h *Handler) commentsCreate(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondValidationError(c, err)
		return
	}

	comment, err := h.services.Post.AddComment(c.Request.Context(), actor.ID, postID, input.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Comment added successfully", gin.H{"comment": comment}))
}

func (h *Handler) commentsDelete(c *gin.Context) {
	actor := h.getActorFromRequest(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		respondValidationError(c, errInvalidPostID)
		return
	}

	if err := h.services.Post.DeleteComment(c.Request.Context(), actor.ID, postID, c.Param("commentId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse("Comment deleted successfully", nil))
}
