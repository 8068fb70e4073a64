package post

import (
	"context"
	"errors"
	"time"

	"github.com/opencircle/core/internal/database"
	"github.com/opencircle/core/internal/models"
	"github.com/opencircle/core/internal/pkg/pagination"
	"github.com/opencircle/core/internal/pkg/response"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Service struct {
	posts *mongo.Collection
	users *mongo.Collection
}

func NewService(db *database.Database) *Service {
	return &Service{
		posts: db.Collection(models.Post{}.Collection()),
		users: db.Collection(models.User{}.Collection()),
	}
}

func (s *Service) Create(ctx context.Context, dto *CreatePostDTO, author *models.User) (*models.Post, error) {
	now := time.Now()
	p := &models.Post{
		ID:        primitive.NewObjectID(),
		Title:     dto.Title,
		Content:   dto.Content,
		ImageURL:  dto.ImageURL,
		VideoURL:  dto.VideoURL,
		Author:    author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.posts.InsertOne(ctx, p); err != nil {
		return nil, err
	}

	p.AuthorRef = &models.UserRef{
		ID:        author.ID,
		Email:     author.Email,
		FirstName: author.FirstName,
		LastName:  author.LastName,
	}
	return p, nil
}

// List returns undeleted posts, newest first, optionally scoped to an author.
func (s *Service) List(ctx context.Context, q pagination.Query, author *primitive.ObjectID) ([]models.Post, response.Pagination, error) {
	filter := bson.M{"deletedAt": nil}
	if author != nil {
		filter["author"] = *author
	}
	return s.listByFilter(ctx, q, filter)
}

// ListByAuthors powers the follow feed: posts from any of the given authors.
func (s *Service) ListByAuthors(ctx context.Context, q pagination.Query, authors []primitive.ObjectID) ([]models.Post, response.Pagination, error) {
	return s.listByFilter(ctx, q, bson.M{
		"author":    bson.M{"$in": authors},
		"deletedAt": nil,
	})
}

func (s *Service) listByFilter(ctx context.Context, q pagination.Query, filter bson.M) ([]models.Post, response.Pagination, error) {
	total, err := s.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, response.Pagination{}, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))

	cur, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, response.Pagination{}, err
	}

	if err := s.populateAuthors(ctx, posts); err != nil {
		return nil, response.Pagination{}, err
	}
	return posts, q.Meta(total), nil
}

func (s *Service) populateAuthors(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, p := range posts {
		if !seen[p.Author] {
			seen[p.Author] = true
			ids = append(ids, p.Author)
		}
	}

	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"email": 1, "firstName": 1, "lastName": 1}))
	if err != nil {
		return err
	}
	var users []models.UserRef
	if err := cur.All(ctx, &users); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]*models.UserRef, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for i := range posts {
		posts[i].AuthorRef = byID[posts[i].Author]
	}
	return nil
}

// FindOne returns a post by id; soft-deleted posts are treated as absent.
func (s *Service) FindOne(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, err
	}

	one := []models.Post{p}
	if err := s.populateAuthors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Update patches a post. Only the author or an admin may update.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, dto *UpdatePostDTO, user *models.User) (*models.Post, error) {
	p, err := s.findOwned(ctx, id, user)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if dto.Title != nil {
		set["title"] = *dto.Title
	}
	if dto.Content != nil {
		set["content"] = *dto.Content
	}
	if dto.ImageURL != nil {
		set["imageUrl"] = *dto.ImageURL
	}
	if dto.VideoURL != nil {
		set["videoUrl"] = *dto.VideoURL
	}

	res := s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Post
	if err := res.Decode(&updated); err != nil {
		return nil, err
	}

	one := []models.Post{updated}
	if err := s.populateAuthors(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Remove soft-deletes a post. Only the author or an admin may delete.
func (s *Service) Remove(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	p, err := s.findOwned(ctx, id, user)
	if err != nil {
		return err
	}

	_, err = s.posts.UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{"deletedAt": time.Now()}},
	)
	return err
}

func (s *Service) findOwned(ctx context.Context, id primitive.ObjectID, user *models.User) (*models.Post, error) {
	var p models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Author != user.ID && user.Role != models.RoleAdmin {
		return nil, errNotPostOwner
	}
	return &p, nil
}
