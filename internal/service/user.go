package service

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/repository"
	"github.com/socialapp/social-service/internal/repository/redisrepo"
	"github.com/socialapp/social-service/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	profilePicturesFolder = "socialapp/profile-pictures"
	coverPhotosFolder     = "socialapp/cover-photos"

	searchResultsLimit = 20
	summaryCacheTTL    = time.Hour
	maxUploadSize      = 50 << 20
)

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
	media  storage.MediaStore
}

func newUserService(logger *zap.Logger, repo *repository.Repository, media storage.MediaStore) User {
	return &userService{
		logger: logger,
		repo:   repo,
		media:  media,
	}
}

func (s *userService) Profile(ctx context.Context, id primitive.ObjectID) (*model.PublicProfile, error) {
	user, err := s.repo.Mongo.User.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}

	return &model.PublicProfile{
		User:           *user,
		FollowersCount: len(user.Followers),
		FollowingCount: len(user.Following),
	}, nil
}

func (s *userService) Summary(ctx context.Context, id primitive.ObjectID) (*model.UserSummary, error) {
	cached, err := redisrepo.Get[model.UserSummary](s.repo.Redis.Default, ctx, redisrepo.UserSummaryKey(id.Hex()))
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get user(%s) summary from redis: %s", id.Hex(), err.Error())
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.repo.Mongo.User.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}

	summary := user.Summary()
	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserSummaryKey(id.Hex()), summary, summaryCacheTTL); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) summary in redis: %s", id.Hex(), err.Error())
	}

	return &summary, nil
}

// Summaries batch-resolves public profiles for the denormalization step
// every post read performs. Cache hits are served from Redis; the rest
// come from a single $in query and are written back.
func (s *userService) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.UserSummary, error) {
	result := make(map[primitive.ObjectID]model.UserSummary, len(ids))

	var misses []primitive.ObjectID
	for _, id := range ids {
		if _, ok := result[id]; ok {
			continue
		}

		cached, err := redisrepo.Get[model.UserSummary](s.repo.Redis.Default, ctx, redisrepo.UserSummaryKey(id.Hex()))
		if err == nil && cached != nil {
			result[id] = *cached
			continue
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get user(%s) summary from redis: %s", id.Hex(), err.Error())
		}

		misses = append(misses, id)
	}

	users, err := s.repo.Mongo.User.FindByIDs(ctx, misses)
	if err != nil {
		s.logger.Sugar().Errorf("failed to batch-find users: %s", err.Error())
		return nil, ErrInternal
	}

	for _, user := range users {
		summary := user.Summary()
		result[user.ID] = summary

		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserSummaryKey(user.ID.Hex()), summary, summaryCacheTTL); err != nil {
			s.logger.Sugar().Errorf("failed to set user(%s) summary in redis: %s", user.ID.Hex(), err.Error())
		}
	}

	return result, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actorID primitive.ObjectID, input dto.UpdateProfileRequest) (*model.User, error) {
	updates := make(map[string]interface{})

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)

		existing, err := s.repo.Mongo.User.FindByUsername(ctx, username)
		if err != nil && err != mongo.ErrNoDocuments {
			s.logger.Sugar().Errorf("failed to check username(%s): %s", username, err.Error())
			return nil, ErrInternal
		}
		if existing != nil && existing.ID != actorID {
			return nil, ErrUsernameTaken
		}

		updates["username"] = username
	}
	if input.FullName != nil {
		updates["fullName"] = strings.TrimSpace(*input.FullName)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}

	user, err := s.repo.Mongo.User.UpdateProfile(ctx, actorID, updates)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to update user(%s) profile: %s", actorID.Hex(), err.Error())
		return nil, ErrInternal
	}

	s.invalidateSummary(ctx, actorID)

	return user, nil
}

func (s *userService) UploadProfilePicture(ctx context.Context, actorID primitive.ObjectID, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	return s.uploadPhoto(ctx, actorID, file, fileHeader, "profilePicture", profilePicturesFolder)
}

func (s *userService) UploadCoverPhoto(ctx context.Context, actorID primitive.ObjectID, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	return s.uploadPhoto(ctx, actorID, file, fileHeader, "coverPhoto", coverPhotosFolder)
}

func (s *userService) uploadPhoto(ctx context.Context, actorID primitive.ObjectID, file multipart.File, fileHeader *multipart.FileHeader, field string, folder string) (string, error) {
	if fileHeader == nil {
		return "", ErrNoFileUploaded
	}
	if fileHeader.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrFileMustBeMedia
	}

	uploaded, err := s.media.Upload(ctx, file, contentType, folder)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upload user(%s) %s: %s", actorID.Hex(), field, err.Error())
		return "", ErrMediaUploadFailed
	}

	if _, err := s.repo.Mongo.User.UpdateProfile(ctx, actorID, map[string]interface{}{field: uploaded.URL}); err != nil {
		if err == mongo.ErrNoDocuments {
			return "", ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to set user(%s) %s: %s", actorID.Hex(), field, err.Error())
		return "", ErrInternal
	}

	s.invalidateSummary(ctx, actorID)

	return uploaded.URL, nil
}

// Follow applies both sides of the edge with idempotent set inserts.
// The two writes are not transactional: a crash in between leaves a
// one-sided edge, and the retry completes the missing side instead of
// failing. The conflict is reported only when neither side changed.
func (s *userService) Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if actorID == targetID {
		return ErrCannotFollowSelf
	}

	addedFollowing, err := s.repo.Mongo.User.AddFollowing(ctx, actorID, targetID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to add user(%s) to following of user(%s): %s", targetID.Hex(), actorID.Hex(), err.Error())
		return ErrInternal
	}

	addedFollower, err := s.repo.Mongo.User.AddFollower(ctx, targetID, actorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Target vanished after the first write; undo our side.
			if _, pullErr := s.repo.Mongo.User.PullFollowing(ctx, actorID, targetID); pullErr != nil {
				s.logger.Sugar().Errorf("failed to revert following of user(%s): %s", actorID.Hex(), pullErr.Error())
			}
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to add user(%s) to followers of user(%s): %s", actorID.Hex(), targetID.Hex(), err.Error())
		return ErrInternal
	}

	if !addedFollowing && !addedFollower {
		return ErrAlreadyFollowing
	}

	return nil
}

// Unfollow mirrors Follow: pulls are idempotent and the conflict is
// reported only when neither record held the edge.
func (s *userService) Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	pulledFollowing, err := s.repo.Mongo.User.PullFollowing(ctx, actorID, targetID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to pull user(%s) from following of user(%s): %s", targetID.Hex(), actorID.Hex(), err.Error())
		return ErrInternal
	}

	pulledFollower, err := s.repo.Mongo.User.PullFollower(ctx, targetID, actorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to pull user(%s) from followers of user(%s): %s", actorID.Hex(), targetID.Hex(), err.Error())
		return ErrInternal
	}

	if !pulledFollowing && !pulledFollower {
		return ErrNotFollowing
	}

	return nil
}

func (s *userService) Followers(ctx context.Context, id primitive.ObjectID) ([]model.UserSummary, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.resolveOrdered(ctx, user.Followers)
}

func (s *userService) Following(ctx context.Context, id primitive.ObjectID) ([]model.UserSummary, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.resolveOrdered(ctx, user.Following)
}

func (s *userService) Search(ctx context.Context, query string) ([]model.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrSearchQueryEmpty
	}

	users, err := s.repo.Mongo.User.Search(ctx, query, searchResultsLimit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search users(%q): %s", query, err.Error())
		return nil, ErrInternal
	}

	summaries := make([]model.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = user.Summary()
	}

	return summaries, nil
}

func (s *userService) findUser(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.repo.Mongo.User.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.Hex(), err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

// resolveOrdered keeps the stored set-insertion order, dropping ids
// whose user record no longer resolves.
func (s *userService) resolveOrdered(ctx context.Context, ids []primitive.ObjectID) ([]model.UserSummary, error) {
	resolved, err := s.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if summary, ok := resolved[id]; ok {
			summaries = append(summaries, summary)
		}
	}

	return summaries, nil
}

func (s *userService) invalidateSummary(ctx context.Context, id primitive.ObjectID) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserSummaryKey(id.Hex())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) summary from redis: %s", id.Hex(), err.Error())
	}
}
