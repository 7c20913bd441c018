package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"inducthub/internal/model"
)

// AssignmentRepo provides assignment records. GetByID returns (nil, nil)
// when no record exists, matching the session engine's contract.
type AssignmentRepo interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Assignment, error)
	ApplyUpdate(ctx context.Context, id string, update *model.AssignmentUpdate) error
	Delete(ctx context.Context, id string) error
}

type assignmentRepo struct {
	collection *mongo.Collection
}

// NewAssignmentRepo creates a Mongo-backed assignment repository.
func NewAssignmentRepo(db *mongo.Database) AssignmentRepo {
	return &assignmentRepo{
		collection: db.Collection("assignments"),
	}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = primitive.NewObjectID().Hex()
	}
	if assignment.Status == "" {
		assignment.Status = model.AssignmentAssigned
	}
	_, err := r.collection.InsertOne(ctx, assignment)
	return err
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByUser(ctx context.Context, userID string) ([]*model.Assignment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []*model.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) ApplyUpdate(ctx context.Context, id string, update *model.AssignmentUpdate) error {
	fields := bson.M{"status": update.Status}
	if update.StartedAt != nil {
		fields["startedAt"] = update.StartedAt
	}
	if update.CompletedAt != nil {
		fields["completedAt"] = update.CompletedAt
	}
	if update.Progress != nil {
		fields["progress"] = *update.Progress
	}
	if update.Feedback != nil {
		fields["feedback"] = *update.Feedback
	}
	if update.Answers != nil {
		fields["answers"] = update.Answers
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	return err
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
