package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inducthub/internal/model"
)

// InductionRepo provides induction definitions.
type InductionRepo interface {
	Create(ctx context.Context, induction *model.Induction) error
	GetByID(ctx context.Context, id string) (*model.Induction, error)
	List(ctx context.Context) ([]*model.Induction, error)
	Update(ctx context.Context, induction *model.Induction) error
	Delete(ctx context.Context, id string) error
}

type inductionRepo struct {
	collection *mongo.Collection
}

// NewInductionRepo creates a Mongo-backed induction repository.
func NewInductionRepo(db *mongo.Database) InductionRepo {
	return &inductionRepo{
		collection: db.Collection("inductions"),
	}
}

func (r *inductionRepo) Create(ctx context.Context, induction *model.Induction) error {
	if induction.ID == "" {
		induction.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, induction)
	return err
}

func (r *inductionRepo) GetByID(ctx context.Context, id string) (*model.Induction, error) {
	var induction model.Induction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&induction)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &induction, nil
}

func (r *inductionRepo) List(ctx context.Context) ([]*model.Induction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var inductions []*model.Induction
	if err = cursor.All(ctx, &inductions); err != nil {
		return nil, err
	}
	return inductions, nil
}

func (r *inductionRepo) Update(ctx context.Context, induction *model.Induction) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": induction.ID}, bson.M{"$set": induction})
	return err
}

func (r *inductionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
