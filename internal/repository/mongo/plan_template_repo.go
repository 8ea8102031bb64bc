// internal/repository/mongo/plan_template_repo.go
package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"peakform/coaching-app/internal/domain"
	"peakform/coaching-app/internal/repository"
)

const planTemplateCollectionName = "plan_templates"

// mongoPlanTemplateRepository implements repository.PlanTemplateRepository
type mongoPlanTemplateRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanTemplateRepository creates a new plan template repository.
func NewMongoPlanTemplateRepository(db *mongo.Database) repository.PlanTemplateRepository {
	return &mongoPlanTemplateRepository{
		collection: db.Collection(planTemplateCollectionName),
	}
}

// Create inserts a new template (or preset) and returns the generated id.
func (r *mongoPlanTemplateRepository) Create(ctx context.Context, tpl *domain.PlanTemplate) (primitive.ObjectID, error) {
	if tpl.TrainerID == primitive.NilObjectID || tpl.Name == "" {
		return primitive.NilObjectID, errors.New("plan template requires trainerId and name")
	}
	tpl.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, tpl)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single template by its ID.
func (r *mongoPlanTemplateRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanTemplate, error) {
	var tpl domain.PlanTemplate
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

// GetByTrainerID retrieves a trainer's templates, either the working plans
// or the presets, newest first.
func (r *mongoPlanTemplateRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, presets bool) ([]domain.PlanTemplate, error) {
	var tpls []domain.PlanTemplate
	filter := bson.M{
		"trainerId": trainerID,
		"isPreset":  presets,
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tpls); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Empty slice when the trainer has none (not an error).
	return tpls, nil
}

// Update overwrites the editable fields of an existing template. TrainerID,
// IsPreset and CreatedAt are never changed by a plan save.
func (r *mongoPlanTemplateRepository) Update(ctx context.Context, tpl *domain.PlanTemplate) error {
	if tpl.ID == primitive.NilObjectID {
		return errors.New("plan template ID is required for update")
	}

	filter := bson.M{"_id": tpl.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":        tpl.Name,
			"description": tpl.Description,
			"slots":       tpl.Slots,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount of 0 just means the data was identical; not an error.
	return nil
}

// Delete removes a template, scoped to its owning trainer.
func (r *mongoPlanTemplateRepository) Delete(ctx context.Context, id, trainerID primitive.ObjectID) error {
	if id == primitive.NilObjectID || trainerID == primitive.NilObjectID {
		return errors.New("template ID and trainer ID are required for deletion")
	}

	// Filter ensures that the template exists AND belongs to the trainer.
	filter := bson.M{
		"_id":       id,
		"trainerId": trainerID,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Either the template didn't exist or it belongs to someone else.
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanTemplateIndexes creates necessary indexes. Call during startup.
func EnsurePlanTemplateIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main query pattern: a trainer listing their plans or presets.
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "isPreset", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	} else {
		log.Printf("Indexes ensured for collection %s", collection.Name())
	}
}
