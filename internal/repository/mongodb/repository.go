package mongodb

import (
	"context"
	"time"

	"github.com/socialapp/social-service/internal/config"
	"github.com/socialapp/social-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

type User interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.User, error)
	AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	AddFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	PullFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	PullFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]*model.User, error)
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Like(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	Unlike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error)
	PushComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) (bool, error)
	PullComment(ctx context.Context, id primitive.ObjectID, commentID string) (bool, error)
	FindHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID, skip, limit int) ([]*model.Post, error)
	CountHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID) (int64, error)
	FindDiscoverFeed(ctx context.Context, skip, limit int) ([]*model.Post, error)
	CountDiscoverFeed(ctx context.Context) (int64, error)
	FindAuthorPosts(ctx context.Context, authorID primitive.ObjectID, skip, limit int) ([]*model.Post, error)
	CountAuthorPosts(ctx context.Context, authorID primitive.ObjectID) (int64, error)
}

type MongoRepository struct {
	User
	Post
}

func New(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		User: newUserRepo(db.Collection(usersCollection)),
		Post: newPostRepo(db.Collection(postsCollection)),
	}
}

func DB(ctx context.Context, cfg config.MongoConfig) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, err
	}

	return client.Database(cfg.DBName), nil
}
