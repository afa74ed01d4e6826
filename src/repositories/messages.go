package repositories

import (
	"context"

	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
)

// MessageStore implements MessageRepository over a document store
type MessageStore struct {
	store database.DocumentStore
}

// NewMessageStore creates a message repository
func NewMessageStore(store database.DocumentStore) *MessageStore {
	return &MessageStore{store: store}
}

func (r *MessageStore) Create(ctx context.Context, msg *models.ContactMessage) error {
	return r.store.InsertOne(ctx, models.CollectionMessages, msg)
}

func (r *MessageStore) List(ctx context.Context, status models.MessageStatus) ([]models.ContactMessage, error) {
	filter := database.Filter{}
	if status != "" {
		filter["status"] = string(status)
	}

	var messages []models.ContactMessage
	if err := r.store.Find(ctx, models.CollectionMessages, filter, database.FindOptions{
		SortField: "createdAt",
		SortDesc:  true,
	}, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return messages, nil
}

func (r *MessageStore) UpdateStatus(ctx context.Context, id string, status models.MessageStatus) (bool, error) {
	n, err := r.store.UpdateOne(ctx, models.CollectionMessages, database.Filter{"id": id},
		map[string]any{"status": string(status)}, false)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ MessageRepository = (*MessageStore)(nil)
