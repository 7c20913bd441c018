package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inducthub/internal/model"
)

func optional() *bool {
	f := false
	return &f
}

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "inducthub"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	induction := model.Induction{
		ID:          primitive.NewObjectID().Hex(),
		Name:        "Warehouse Safety Induction",
		Description: "Mandatory safety briefing for all new warehouse staff.",
		Department:  "Operations",
		Questions: []model.Question{
			{
				ID:          "q1",
				Type:        model.QuestionTypeInformation,
				Title:       "Welcome to the warehouse",
				Description: "This induction walks you through our safety procedures. Read each section carefully before moving on.",
			},
			{
				ID:             "q2",
				Type:           model.QuestionTypeMultiChoice,
				Title:          "Which of the following are mandatory PPE on the warehouse floor?",
				Options:        []string{"Hi-vis vest", "Steel-cap boots", "Sunglasses", "Hard hat"},
				CorrectAnswers: []int{0, 1, 3},
				Hint:           "Three items are mandatory.",
			},
			{
				ID:             "q3",
				Type:           model.QuestionTypeTrueFalse,
				Title:          "You may operate a forklift without a licence if supervised.",
				Options:        []string{"True", "False"},
				CorrectAnswers: []int{1},
				IncorrectMsg:   "A forklift licence is always required, supervised or not.",
			},
			{
				ID:             "q4",
				Type:           model.QuestionTypeYesNo,
				Title:          "Have you read the emergency evacuation plan?",
				Options:        []string{"Yes", "No"},
				CorrectAnswers: []int{0},
			},
			{
				ID:             "q5",
				Type:           model.QuestionTypeDropdown,
				Title:          "Where is the nearest first aid station?",
				Options:        []string{"Loading dock", "Break room", "Main office", "Aisle 7"},
				CorrectAnswers: []int{1},
			},
			{
				ID:       "q6",
				Type:     model.QuestionTypeShortAnswer,
				Title:    "Describe what you would do if you noticed a chemical spill.",
				MinChars: 20,
				MaxChars: 500,
			},
			{
				ID:       "q7",
				Type:     model.QuestionTypeFileUpload,
				Title:    "Upload a photo of your forklift licence (if you hold one).",
				Required: optional(),
			},
		},
		CreatedAt: model.NewTimestamp(time.Now()),
		UpdatedAt: model.NewTimestamp(time.Now()),
	}

	if _, err := db.Collection("inductions").InsertOne(ctx, induction); err != nil {
		log.Fatalf("Failed to insert induction: %v", err)
	}

	assignment := model.Assignment{
		ID:          primitive.NewObjectID().Hex(),
		UserID:      "staff_demo",
		InductionID: induction.ID,
		Status:      model.AssignmentAssigned,
		AssignedAt:  model.NewTimestamp(time.Now()),
	}

	if _, err := db.Collection("assignments").InsertOne(ctx, assignment); err != nil {
		log.Fatalf("Failed to insert assignment: %v", err)
	}

	fmt.Printf("Seeded induction '%s' (%s) assigned to '%s' as %s\n",
		induction.Name, induction.ID, assignment.UserID, assignment.ID)
}
