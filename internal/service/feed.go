package service

import (
	"context"

	"github.com/socialapp/social-service/internal/dto"
	"github.com/socialapp/social-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type feedService struct {
	logger *zap.Logger
	repo   *repository.Repository
	users  User
}

func newFeedService(logger *zap.Logger, repo *repository.Repository, users User) Feed {
	return &feedService{
		logger: logger,
		repo:   repo,
		users:  users,
	}
}

// Home composes the reverse-chronological page over posts authored by
// the actor and everyone they follow, restricted to public/followers
// visibility. The page query and the count query are separate reads,
// so total may be momentarily out of step with items under concurrent
// writes.
func (s *feedService) Home(ctx context.Context, actorID primitive.ObjectID, page, limit int) (*dto.PostPage, error) {
	normalizePage(&page, &limit)
	skip := (page - 1) * limit

	actor, err := s.repo.Mongo.User.FindByID(ctx, actorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}

		s.logger.Sugar().Errorf("failed to find user(%s): %s", actorID.Hex(), err.Error())
		return nil, ErrInternal
	}

	authorIDs := append(append([]primitive.ObjectID{}, actor.Following...), actorID)

	posts, err := s.repo.Mongo.Post.FindHomeFeed(ctx, authorIDs, skip, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) home feed: %s", actorID.Hex(), err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Mongo.Post.CountHomeFeed(ctx, authorIDs)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count user(%s) home feed: %s", actorID.Hex(), err.Error())
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

func (s *feedService) Discover(ctx context.Context, page, limit int) (*dto.PostPage, error) {
	normalizePage(&page, &limit)
	skip := (page - 1) * limit

	posts, err := s.repo.Mongo.Post.FindDiscoverFeed(ctx, skip, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find discover feed: %s", err.Error())
		return nil, ErrInternal
	}

	total, err := s.repo.Mongo.Post.CountDiscoverFeed(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count discover feed: %s", err.Error())
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
