package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/socialapp/social-service/internal/model"
	"github.com/socialapp/social-service/internal/repository"
	"github.com/socialapp/social-service/internal/repository/mongodb"
	"github.com/socialapp/social-service/internal/repository/redisrepo"
	"github.com/socialapp/social-service/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory doubles of the repository interfaces with the same error
// and matched/modified semantics as the Mongo implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) put(user *model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*model.User
	seen := make(map[primitive.ObjectID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if user, ok := r.users[id]; ok {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for field, value := range updates {
		switch field {
		case "username":
			user.Username = value.(string)
		case "fullName":
			user.FullName = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "profilePicture":
			url := value.(string)
			user.ProfilePicture = &url
		case "coverPhoto":
			url := value.(string)
			user.CoverPhoto = &url
		}
	}
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func contains(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	result := ids[:0]
	for _, v := range ids {
		if v != id {
			result = append(result, v)
		}
	}
	return result
}

func (r *fakeUserRepo) AddFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if contains(user.Following, targetID) {
		return false, nil
	}
	user.Following = append(user.Following, targetID)
	return true, nil
}

func (r *fakeUserRepo) AddFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if contains(user.Followers, targetID) {
		return false, nil
	}
	user.Followers = append(user.Followers, targetID)
	return true, nil
}

func (r *fakeUserRepo) PullFollowing(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if !contains(user.Following, targetID) {
		return false, nil
	}
	user.Following = remove(user.Following, targetID)
	return true, nil
}

func (r *fakeUserRepo) PullFollower(ctx context.Context, userID, targetID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	if !contains(user.Followers, targetID) {
		return false, nil
	}
	user.Followers = remove(user.Followers, targetID)
	return true, nil
}

func (r *fakeUserRepo) Search(ctx context.Context, query string, limit int) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query = strings.ToLower(query)
	var result []*model.User
	for _, user := range r.users {
		if len(result) == limit {
			break
		}
		if strings.Contains(strings.ToLower(user.Username), query) || strings.Contains(strings.ToLower(user.FullName), query) {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*model.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[primitive.ObjectID]*model.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}
	stored := post
	r.posts[post.ID] = &stored
	return &post, nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := clonePost(post)
	return &copied, nil
}

func clonePost(post *model.Post) model.Post {
	copied := *post
	copied.Likes = append([]primitive.ObjectID{}, post.Likes...)
	copied.Comments = append([]model.Comment{}, post.Comments...)
	return copied
}

func (r *fakePostRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for field, value := range updates {
		switch field {
		case "content.text":
			post.Content.Text = value.(string)
		case "content.links":
			post.Content.Links = value.([]model.Link)
		case "visibility":
			post.Visibility = value.(model.Visibility)
		}
	}
	now := time.Now()
	post.IsEdited = true
	post.EditedAt = &now
	copied := clonePost(post)
	return &copied, nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Like(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || contains(post.Likes, userID) {
		return nil, mongo.ErrNoDocuments
	}
	post.Likes = append(post.Likes, userID)
	copied := clonePost(post)
	return &copied, nil
}

func (r *fakePostRepo) Unlike(ctx context.Context, id, userID primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok || !contains(post.Likes, userID) {
		return nil, mongo.ErrNoDocuments
	}
	post.Likes = remove(post.Likes, userID)
	copied := clonePost(post)
	return &copied, nil
}

func (r *fakePostRepo) PushComment(ctx context.Context, id primitive.ObjectID, comment model.Comment) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	post.Comments = append(post.Comments, comment)
	return true, nil
}

func (r *fakePostRepo) PullComment(ctx context.Context, id primitive.ObjectID, commentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return false, mongo.ErrNoDocuments
	}
	for i, comment := range post.Comments {
		if comment.ID == commentID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePostRepo) sorted(filter func(*model.Post) bool) []*model.Post {
	var matched []*model.Post
	for _, post := range r.posts {
		if filter(post) {
			copied := clonePost(post)
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return bytes.Compare(matched[i].ID[:], matched[j].ID[:]) > 0
	})
	return matched
}

func page(posts []*model.Post, skip, limit int) []*model.Post {
	if skip >= len(posts) {
		return nil
	}
	posts = posts[skip:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

func homeVisible(post *model.Post) bool {
	return post.Visibility == model.VisibilityPublic || post.Visibility == model.VisibilityFollowers
}

func (r *fakePostRepo) FindHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID, skip, limit int) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(p *model.Post) bool {
		return contains(authorIDs, p.AuthorID) && homeVisible(p)
	}), skip, limit), nil
}

func (r *fakePostRepo) CountHomeFeed(ctx context.Context, authorIDs []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sorted(func(p *model.Post) bool {
		return contains(authorIDs, p.AuthorID) && homeVisible(p)
	}))), nil
}

func (r *fakePostRepo) FindDiscoverFeed(ctx context.Context, skip, limit int) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(p *model.Post) bool {
		return p.Visibility == model.VisibilityPublic
	}), skip, limit), nil
}

func (r *fakePostRepo) CountDiscoverFeed(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sorted(func(p *model.Post) bool {
		return p.Visibility == model.VisibilityPublic
	}))), nil
}

func (r *fakePostRepo) FindAuthorPosts(ctx context.Context, authorID primitive.ObjectID, skip, limit int) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return page(r.sorted(func(p *model.Post) bool {
		return p.AuthorID == authorID
	}), skip, limit), nil
}

func (r *fakePostRepo) CountAuthorPosts(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.sorted(func(p *model.Post) bool {
		return p.AuthorID == authorID
	}))), nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprint(value)
	return nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = string(data)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var deleted int64
	for _, key := range keys {
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

type uploadedObject struct {
	Key         string
	ContentType string
	Folder      string
}

type fakeMediaStore struct {
	mu       sync.Mutex
	uploads  []uploadedObject
	deleted  []string
	failFrom int // fail uploads once this many succeeded; -1 never fails
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{failFrom: -1}
}

func (s *fakeMediaStore) Upload(ctx context.Context, body io.Reader, contentType string, folder string) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFrom >= 0 && len(s.uploads) >= s.failFrom {
		return nil, errors.New("storage unavailable")
	}
	key := fmt.Sprintf("%s/object-%d", folder, len(s.uploads))
	s.uploads = append(s.uploads, uploadedObject{Key: key, ContentType: contentType, Folder: folder})
	return &storage.UploadResult{URL: "https://cdn.test/" + key, Key: key}, nil
}

func (s *fakeMediaStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func newTestRepo() (*repository.Repository, *fakeUserRepo, *fakePostRepo) {
	users := newFakeUserRepo()
	posts := newFakePostRepo()
	repo := &repository.Repository{
		Mongo: &mongodb.MongoRepository{User: users, Post: posts},
		Redis: &redisrepo.RedisRepository{Default: newFakeCache()},
	}
	return repo, users, posts
}
