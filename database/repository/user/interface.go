// File: database/repository/user/interface.go
package userRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/GeethaPardheev/MedicalVoiceAI/database"
	"github.com/GeethaPardheev/MedicalVoiceAI/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository persists caller records keyed by normalized phone number.
type UserRepository interface {
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	Upsert(ctx context.Context, phone, name string) (*models.User, error)
	UpdatePreferences(ctx context.Context, phone string, preferences map[string]any) (*models.User, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo() UserRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("users")
	repo := &mongoUserRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}
