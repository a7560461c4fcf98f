package mongodb

import (
	"context"
	"regexp"
	"time"

	"github.com/socialapp/social-service/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userRepo struct {
	col *mongo.Collection
}

func newUserRepo(col *mongo.Collection) User {
	return &userRepo{
		col: col,
	}
}

func (r *userRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	for field, value := range updates {
		set[field] = value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// addToSet applies an idempotent membership insert; the returned bool
// is false when the member was already present or the user is absent.
func (r *userRepo) addToSet(ctx context.Context, id primitive.ObjectID, field string, member primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{field: member}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}

	return res.ModifiedCount == 1, nil
}

func (r *userRepo) pull(ctx context.Context, id primitive.ObjectID, field string, member primitive.ObjectID) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{field: member}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}

	return res.ModifiedCount == 1, nil
}

func (r *userRepo) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "following", targetID)
}

func (r *userRepo) AddFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "followers", targetID)
}

func (r *userRepo) PullFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "following", targetID)
}

func (r *userRepo) PullFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "followers", targetID)
}

func (r *userRepo) Search(ctx context.Context, query string, limit int) ([]*model.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"username": pattern},
		bson.M{"fullName": pattern},
	}}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}
