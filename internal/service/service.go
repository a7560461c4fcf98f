package service

import (
	"context"
	"mime/multipart"

	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/repository"
	"github.com/socialapp/social-service/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const MAX_LIMIT = 50

// normalizePage clamps caller-supplied pagination to sane bounds; the
// limit cap keeps a single request from dragging the whole collection.
func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = 20
	}
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type User interface {
	Profile(ctx context.Context, id primitive.ObjectID) (*model.PublicProfile, error)
	Summary(ctx context.Context, id primitive.ObjectID) (*model.UserSummary, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error)
	UpdateProfile(ctx context.Context, actorID primitive.ObjectID, input dto.UpdateProfileRequest) (*model.User, error)
	UploadProfilePicture(ctx context.Context, actorID primitive.ObjectID, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	UploadCoverPhoto(ctx context.Context, actorID primitive.ObjectID, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
	Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	Followers(ctx context.Context, id primitive.ObjectID) ([]model.UserSummary, error)
	Following(ctx context.Context, id primitive.ObjectID) ([]model.UserSummary, error)
	Search(ctx context.Context, query string) ([]model.UserSummary, error)
}

type Post interface {
	Create(ctx context.Context, actorID primitive.ObjectID, input dto.CreatePostRequest, files []*multipart.FileHeader) (*model.FullPost, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID primitive.ObjectID, page, limit int) (*dto.PostPage, error)
	Update(ctx context.Context, actorID, postID primitive.ObjectID, input dto.UpdatePostRequest) (*model.FullPost, error)
	Delete(ctx context.Context, actorID, postID primitive.ObjectID) error
	Like(ctx context.Context, actorID, postID primitive.ObjectID) (int, error)
	Unlike(ctx context.Context, actorID, postID primitive.ObjectID) (int, error)
	AddComment(ctx context.Context, actorID, postID primitive.ObjectID, text string) (*model.FullComment, error)
	DeleteComment(ctx context.Context, actorID, postID primitive.ObjectID, commentID string) error
}

type Feed interface {
	Home(ctx context.Context, actorID primitive.ObjectID, page, limit int) (*dto.PostPage, error)
	Discover(ctx context.Context, page, limit int) (*dto.PostPage, error)
}

type Service struct {
	User
	Post
	Feed
}

func New(logger *zap.Logger, repo *repository.Repository, media storage.MediaStore) *Service {
	users := newUserService(logger, repo, media)
	return &Service{
		User: users,
		Post: newPostService(logger, repo, media, users),
		Feed: newFeedService(logger, repo, users),
	}
}
