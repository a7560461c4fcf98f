package mongodb

import (
	"context"
	"time"

	"github.com/socialapp/social-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// feedSort orders posts newest first with _id as the deterministic
// tie-breaker so pagination stays stable across pages.
var feedSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

type postRepo struct {
	col *mongo.Collection
}

func newPostRepo(col *mongo.Collection) Post {
	return &postRepo{
		col: col,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.Post, error) {
	set := bson.M{
		"isEdited": true,
		"editedAt": time.Now(),
	}
	for field, value := range updates {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post model.Post
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// Like inserts userID into the like set in a single conditional update;
// the filter's $ne precondition makes a duplicate like fail with
// mongo.ErrNoDocuments instead of racing a read-modify-write.
func (r *postRepo) Like(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	filter := bson.M{"_id": id, "likes": bson.M{"$ne": userID}}
	update := bson.M{"$addToSet": bson.M{"likes": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post model.Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Unlike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	filter := bson.M{"_id": id, "likes": userID}
	update := bson.M{"$pull": bson.M{"likes": userID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post model.Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) PushComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return false, err
	}

	return res.MatchedCount == 1, nil
}

func (r *postRepo) PullComment(ctx context.Context, id primitive.ObjectID, commentID string) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"comments": bson.M{"id": commentID}}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}

	return res.ModifiedCount == 1, nil
}

func homeFeedFilter(authorIDs []primitive.ObjectID) bson.M {
	return bson.M{
		"author":     bson.M{"$in": authorIDs},
		"visibility": bson.M{"$in": bson.A{model.VisibilityPublic, model.VisibilityFollowers}},
	}
}

func (r *postRepo) FindHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID, skip, limit int) ([]*model.Post, error) {
	return r.find(ctx, homeFeedFilter(authorIDs), skip, limit)
}

func (r *postRepo) CountHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, homeFeedFilter(authorIDs))
}

func (r *postRepo) FindDiscoverFeed(ctx context.Context, skip, limit int) ([]*model.Post, error) {
	return r.find(ctx, bson.M{"visibility": model.VisibilityPublic}, skip, limit)
}

func (r *postRepo) CountDiscoverFeed(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"visibility": model.VisibilityPublic})
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID primitive.ObjectID, skip, limit int) ([]*model.Post, error) {
	return r.find(ctx, bson.M{"author": authorID}, skip, limit)
}

func (r *postRepo) CountAuthorPosts(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"author": authorID})
}

func (r *postRepo) find(ctx context.Context, filter bson.M, skip, limit int) ([]*model.Post, error) {
	opts := options.Find().
		SetSort(feedSort).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var posts []*model.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}

	return posts, nil
}
