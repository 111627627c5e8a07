// File: database/repository/user/crud.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindByPhone returns the user for a normalized phone number, or nil when no
// record exists.
func (r *mongoUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", phone, err)
	}
	return &user, nil
}

// Upsert creates the user if absent and returns the stored record. An
// existing record wins over the supplied name; the store is the source of
// truth, not the caller's current utterance.
func (r *mongoUserRepo) Upsert(ctx context.Context, phone, name string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	setOnInsert := bson.M{
		"phone":      phone,
		"created_at": now,
	}
	if name != "" {
		setOnInsert["name"] = name
	}
	update := bson.M{
		"$setOnInsert": setOnInsert,
		"$set":         bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"phone": phone}, update, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", phone, err)
	}
	return &user, nil
}

// UpdatePreferences replaces the user's preference map.
func (r *mongoUserRepo) UpdatePreferences(ctx context.Context, phone string, preferences map[string]any) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"preferences": preferences,
			"updated_at":  time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"phone": phone}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user %s not found", phone)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences for %s: %w", phone, err)
	}
	return &user, nil
}
