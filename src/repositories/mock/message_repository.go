package mock

import (
	"context"

	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
)

// MessageRepository is a mock implementation of repositories.MessageRepository
type MessageRepository struct {
	CreateFunc       func(ctx context.Context, msg *models.ContactMessage) error
	ListFunc         func(ctx context.Context, status models.MessageStatus) ([]models.ContactMessage, error)
	UpdateStatusFunc func(ctx context.Context, id string, status models.MessageStatus) (bool, error)

	Calls map[string][]interface{}
}

// NewMessageRepository creates a new mock message repository
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *MessageRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.Calls["Create"] = append(m.Calls["Create"], *msg)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, msg)
	}
	return nil
}

func (m *MessageRepository) List(ctx context.Context, status models.MessageStatus) ([]models.ContactMessage, error) {
	m.Calls["List"] = append(m.Calls["List"], status)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, status)
	}
	return []models.ContactMessage{}, nil
}

func (m *MessageRepository) UpdateStatus(ctx context.Context, id string, status models.MessageStatus) (bool, error) {
	m.Calls["UpdateStatus"] = append(m.Calls["UpdateStatus"], id, status)
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return true, nil
}

var _ repositories.MessageRepository = (*MessageRepository)(nil)
