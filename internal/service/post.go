package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/repository"
	"github.com/socialapp/social-service/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	postMediaFolder = "socialapp/posts"
	maxMediaFiles   = 10
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	media  storage.MediaStore
	users  User
}

func newPostService(logger *zap.Logger, repo *repository.Repository, media storage.MediaStore, users User) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		media:  media,
		users:  users,
	}
}

func (s *postService) Create(ctx context.Context, actorID primitive.ObjectID, input dto.CreatePostRequest, files []*multipart.FileHeader) (*model.FullPost, error) {
	if len(files) > maxMediaFiles {
		return nil, ErrTooManyMediaFiles
	}

	text := strings.TrimSpace(input.Text)

	links := []model.Link{}
	if input.Links != "" {
		if err := json.Unmarshal([]byte(input.Links), &links); err != nil {
			return nil, ErrInvalidLinks
		}
	}

	visibility := model.Visibility(input.Visibility)
	if visibility == "" {
		visibility = model.VisibilityPublic
	}
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	if text == "" && len(files) == 0 && len(links) == 0 {
		return nil, ErrPostEmpty
	}

	media, err := s.uploadMedia(ctx, files)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.Mongo.Post.Create(ctx, model.Post{
		AuthorID: actorID,
		Content: model.PostContent{
			Text:  text,
			Media: media,
			Links: links,
		},
		Visibility: visibility,
	})
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", actorID.Hex(), err.Error())
		s.deleteMedia(media)
		return nil, ErrInternal
	}

	return s.resolveOne(ctx, post)
}

// uploadMedia streams each file to blob storage. A mid-sequence failure
// rolls back every object uploaded so far, so a post never references
// fewer media items than the client sent.
func (s *postService) uploadMedia(ctx context.Context, files []*multipart.FileHeader) ([]model.Media, error) {
	media := make([]model.Media, 0, len(files))

	for _, fileHeader := range files {
		mediaType, err := mediaTypeOf(fileHeader)
		if err != nil {
			s.deleteMedia(media)
			return nil, err
		}

		file, err := fileHeader.Open()
		if err != nil {
			s.logger.Sugar().Errorf("failed to open uploaded file: %s", err.Error())
			s.deleteMedia(media)
			return nil, ErrInternal
		}

		uploaded, err := s.media.Upload(ctx, file, fileHeader.Header.Get("Content-Type"), postMediaFolder)
		file.Close()
		if err != nil {
			s.logger.Sugar().Errorf("failed to upload post media: %s", err.Error())
			s.deleteMedia(media)
			return nil, ErrMediaUploadFailed
		}

		media = append(media, model.Media{
			Type:       mediaType,
			URL:        uploaded.URL,
			StorageKey: uploaded.Key,
		})
	}

	return media, nil
}

func mediaTypeOf(fileHeader *multipart.FileHeader) (model.MediaType, error) {
	if fileHeader.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaTypeImage, nil
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaTypeVideo, nil
	default:
		return "", ErrFileMustBeMedia
	}
}

// deleteMedia best-effort removes external objects; failures are logged
// and never abort the caller.
func (s *postService) deleteMedia(media []model.Media) {
	ctx := context.Background()
	for _, m := range media {
		if m.StorageKey == "" {
			continue
		}
		if err := s.media.Delete(ctx, m.StorageKey); err != nil {
			s.logger.Sugar().Errorf("failed to delete media object(%s): %s", m.StorageKey, err.Error())
		}
	}
}

func (s *postService) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FullPost, error) {
	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.resolveOne(ctx, post)
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID primitive.ObjectID, page, limit int) (*dto.PostPage, error) {
	normalizePage(&page, &limit)
	skip := (page - 1) * limit

	posts, err := s.repo.Mongo.Post.FindAuthorPosts(ctx, authorID, skip, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts: %s", authorID.Hex(), err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Mongo.Post.CountAuthorPosts(ctx, authorID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count author(%s) posts: %s", authorID.Hex(), err.Error())
		return nil, ErrInternal
	}

	full, err := resolvePosts(ctx, s.users, posts)
	if err != nil {
		return nil, err
	}

	return &dto.PostPage{
		Posts:      full,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

func (s *postService) Update(ctx context.Context, actorID, postID primitive.ObjectID, input dto.UpdatePostRequest) (*model.FullPost, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanMutate(actorID) {
		return nil, ErrNotPostAuthor
	}

	updates := make(map[string]interface{})
	content := post.Content

	if input.Text != nil {
		content.Text = strings.TrimSpace(*input.Text)
		updates["content.text"] = content.Text
	}
	if input.Links != nil {
		content.Links = *input.Links
		updates["content.links"] = content.Links
	}
	if input.Visibility != nil {
		visibility := model.Visibility(*input.Visibility)
		if !visibility.Valid() {
			return nil, ErrInvalidVisibility
		}
		updates["visibility"] = visibility
	}

	// The creation invariant holds across edits too: an update may not
	// leave the post with no text, media or links.
	if content.Empty() {
		return nil, ErrPostEmpty
	}

	updated, err := s.repo.Mongo.Post.Update(ctx, postID, updates)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to update post(%s): %s", postID.Hex(), err.Error())
		return nil, ErrInternal
	}

	return s.resolveOne(ctx, updated)
}

func (s *postService) Delete(ctx context.Context, actorID, postID primitive.ObjectID) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}
	if !post.CanMutate(actorID) {
		return ErrNotPostAuthor
	}

	s.deleteMedia(post.Content.Media)

	if err := s.repo.Mongo.Post.Delete(ctx, postID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete post(%s): %s", postID.Hex(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) Like(ctx context.Context, actorID, postID primitive.ObjectID) (int, error) {
	post, err := s.repo.Mongo.Post.Like(ctx, postID, actorID)
	if err == nil {
		return len(post.Likes), nil
	}
	if err != mongo.ErrNoDocuments {
		s.logger.Sugar().Errorf("failed to like post(%s): %s", postID.Hex(), err.Error())
		return 0, ErrInternal
	}

	// The conditional update matched nothing: either the post is gone
	// or the actor already liked it.
	if _, err := s.findPost(ctx, postID); err != nil {
		return 0, err
	}

	return 0, ErrAlreadyLiked
}

func (s *postService) Unlike(ctx context.Context, actorID, postID primitive.ObjectID) (int, error) {
	post, err := s.repo.Mongo.Post.Unlike(ctx, postID, actorID)
	if err == nil {
		return len(post.Likes), nil
	}
	if err != mongo.ErrNoDocuments {
		s.logger.Sugar().Errorf("failed to unlike post(%s): %s", postID.Hex(), err.Error())
		return 0, ErrInternal
	}

	if _, err := s.findPost(ctx, postID); err != nil {
		return 0, err
	}

	return 0, ErrNotLiked
}

func (s *postService) AddComment(ctx context.Context, actorID, postID primitive.ObjectID, text string) (*model.FullComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextEmpty
	}

	comment := model.Comment{
		ID:        uuid.New().String(),
		User:      actorID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	matched, err := s.repo.Mongo.Post.PushComment(ctx, postID, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to comment on post(%s): %s", postID.Hex(), err.Error())
		return nil, ErrInternal
	}
	if !matched {
		return nil, ErrPostNotFound
	}

	author, err := s.users.Summary(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &model.FullComment{
		Comment: comment,
		User:    *author,
	}, nil
}

func (s *postService) DeleteComment(ctx context.Context, actorID, postID primitive.ObjectID, commentID string) error {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return err
	}

	comment := post.FindComment(commentID)
	if comment == nil {
		return ErrCommentNotFound
	}

	if !post.CanDeleteComment(comment, actorID) {
		return ErrNotCommentAuthor
	}

	if _, err := s.repo.Mongo.Post.PullComment(ctx, postID, commentID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to delete comment(%s) from post(%s): %s", commentID, postID.Hex(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *postService) findPost(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	post, err := s.repo.Mongo.Post.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}

		s.logger.Sugar().Errorf("failed to find post(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

func (s *postService) resolveOne(ctx context.Context, post *model.Post) (*model.FullPost, error) {
	full, err := resolvePosts(ctx, s.users, []*model.Post{post})
	if err != nil {
		return nil, err
	}

	return full[0], nil
}
