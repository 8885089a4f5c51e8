package repositories

import (
	"context"
	"time"

	"wanderlog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, id string, userID uint) (*models.Post, bool, error)
	PushCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error
	PullCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post with empty comment and like lists
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CommentIDs = []primitive.ObjectID{}
	post.Likes = []models.LikeEntry{}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID. A malformed id resolves to no entity,
// so it reports NotFound like a missing one.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewNotFoundError("Post")
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.NewNotFoundError("Post")
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves all posts ordered newest-first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost writes the post's mutable fields back to MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":       post.Title,
			"description": post.Description,
			"image_url":   post.ImageURL,
			"location":    post.Location,
			"tags":        post.Tags,
			"updated_at":  post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// DeletePost deletes a post by ID
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.NewNotFoundError("Post")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// ToggleLike removes the user's like entry if present, otherwise appends one.
// Returns the updated post and whether the post is now liked by the user.
func (r *MongoPostRepository) ToggleLike(ctx context.Context, id string, userID uint) (*models.Post, bool, error) {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	liked := !post.LikedBy(userID)
	var update bson.M
	if liked {
		update = bson.M{"$push": bson.M{"likes": models.LikeEntry{UserID: userID, CreatedAt: time.Now()}}}
	} else {
		update = bson.M{"$pull": bson.M{"likes": bson.M{"user_id": userID}}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Post
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": post.ID}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, models.NewNotFoundError("Post")
		}
		return nil, false, err
	}
	return &updated, liked, nil
}

// PushCommentID appends a comment reference to the post. Idempotent: a
// reference already present is not duplicated.
func (r *MongoPostRepository) PushCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"comment_ids": commentID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}

// PullCommentID removes a comment reference from the post. Idempotent: a
// reference already absent is a no-op.
func (r *MongoPostRepository) PullCommentID(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comment_ids": commentID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError("Post")
	}
	return nil
}
