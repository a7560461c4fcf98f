package service

import (
	"context"

	"github.com/socialapp/social-service/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolvePosts performs the denormalization join: one batch summary
// lookup for every author, liker and comment author across the page,
// then a per-post assembly. Ids whose user record no longer resolves
// are dropped from like lists and fall back to a bare id elsewhere.
func resolvePosts(ctx context.Context, users User, posts []*model.Post) ([]*model.FullPost, error) {
	var ids []primitive.ObjectID
	for _, post := range posts {
		ids = append(ids, post.AuthorID)
		ids = append(ids, post.Likes...)
		for _, comment := range post.Comments {
			ids = append(ids, comment.User)
		}
	}

	summaries, err := users.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	full := make([]*model.FullPost, len(posts))
	for i, post := range posts {
		fp := &model.FullPost{
			Post:     *post,
			Author:   summaryOrBare(summaries, post.AuthorID),
			Likes:    make([]model.UserSummary, 0, len(post.Likes)),
			Comments: make([]model.FullComment, 0, len(post.Comments)),
		}

		for _, likerID := range post.Likes {
			if summary, ok := summaries[likerID]; ok {
				fp.Likes = append(fp.Likes, summary)
			}
		}

		for _, comment := range post.Comments {
			fp.Comments = append(fp.Comments, model.FullComment{
				Comment: comment,
				User:    summaryOrBare(summaries, comment.User),
			})
		}

		full[i] = fp
	}

	return full, nil
}

func summaryOrBare(summaries map[primitive.ObjectID]model.UserSummary, id primitive.ObjectID) model.UserSummary {
	if summary, ok := summaries[id]; ok {
		return summary
	}
	return model.UserSummary{ID: id}
}
