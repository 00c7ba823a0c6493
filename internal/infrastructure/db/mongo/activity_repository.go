package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

const activityCollection = "session_activity"

// ActivityRepository implements ports.ActivityRecorder using MongoDB.
type ActivityRepository struct {
	coll *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) ports.ActivityRecorder {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

// Record appends an event to the session_activity audit collection.
func (r *ActivityRepository) Record(ctx context.Context, ev domain.SessionEvent) error {
	doc := bson.M{
		"device_id":   ev.DeviceID,
		"kind":        string(ev.Kind),
		"at":          ev.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if ev.SubjectID != "" {
		doc["subject_id"] = ev.SubjectID
	}
	if ev.Email != "" {
		doc["email"] = ev.Email
	}
	if ev.Role != "" {
		doc["role"] = string(ev.Role)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
