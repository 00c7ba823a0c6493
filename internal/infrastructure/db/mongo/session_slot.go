package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homiin/portal/internal/core/domain"
)

const sessionSlotCollection = "session_slots"

// SessionSlot stores one serialised session per key, in a document whose _id
// is the key.
type SessionSlot struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewSessionSlot returns a slot backed by the session_slots collection.
func NewSessionSlot(db *mongo.Database) *SessionSlot {
	return &SessionSlot{coll: db.Collection(sessionSlotCollection), now: time.Now}
}

type slotDoc struct {
	Key       string `bson:"_id"`
	Payload   string `bson:"payload"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *SessionSlot) Load(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc slotDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSlotEmpty
		}
		return nil, fmt.Errorf("find session slot: %w", err)
	}
	return []byte(doc.Payload), nil
}

func (s *SessionSlot) Save(ctx context.Context, key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := slotDoc{Key: key, Payload: string(payload), UpdatedAt: s.now().UTC().Unix()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session slot: %w", err)
	}
	return nil
}

func (s *SessionSlot) Remove(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}
