package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zirvehikayem/blog-api/src/database"
	"github.com/zirvehikayem/blog-api/src/models"
	"github.com/zirvehikayem/blog-api/src/repositories"
	"github.com/zirvehikayem/blog-api/src/repositories/mock"
)

// recordingNotifier captures notifications
type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.ContactMessage
	err  error
}

func (n *recordingNotifier) NotifyContactMessage(_ context.Context, msg models.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func validContactInput() models.ContactInput {
	return models.ContactInput{
		Name:    "  Ayşe Yılmaz ",
		Email:   "ayse@example.com",
		Subject: "Merhaba",
		Message: " Yazılarınızı çok beğeniyorum. ",
	}
}

func TestContactService_SubmitStoresNewMessage(t *testing.T) {
	repo := mock.NewMessageRepository()
	notifier := &recordingNotifier{}
	svc := NewContactService(repo, nil, notifier, nil)
	svc.now = func() time.Time { return fixedNow }

	msg, err := svc.Submit(context.Background(), validContactInput())
	require.NoError(t, err)
	svc.Wait()

	assert.Equal(t, "Ayşe Yılmaz", msg.Name)
	assert.Equal(t, "Yazılarınızı çok beğeniyorum.", msg.Message)
	assert.Equal(t, models.MessageStatusNew, msg.Status)
	assert.Equal(t, fixedNow, msg.CreatedAt)
	assert.NotEmpty(t, msg.ID)

	require.Len(t, repo.Calls["Create"], 1)
	stored := repo.Calls["Create"][0].(models.ContactMessage)
	assert.Equal(t, msg.ID, stored.ID)
	assert.Equal(t, "ayse@example.com", stored.Email)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, msg.ID, notifier.sent[0].ID)
}

func TestContactService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *models.ContactInput)
		field  string
	}{
		{"blank name", func(in *models.ContactInput) { in.Name = "  " }, "name"},
		{"long name", func(in *models.ContactInput) { in.Name = strings.Repeat("a", 101) }, "name"},
		{"no at sign", func(in *models.ContactInput) { in.Email = "ayse.example.com" }, "email"},
		{"no dot in domain", func(in *models.ContactInput) { in.Email = "ayse@example" }, "email"},
		{"two at signs", func(in *models.ContactInput) { in.Email = "a@b@c.com" }, "email"},
		{"long subject", func(in *models.ContactInput) { in.Subject = strings.Repeat("s", 201) }, "subject"},
		{"blank message", func(in *models.ContactInput) { in.Message = "\n\t " }, "message"},
		{"long message", func(in *models.ContactInput) { in.Message = strings.Repeat("m", 2001) }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mock.NewMessageRepository()
			svc := NewContactService(repo, nil, nil, nil)

			in := validContactInput()
			tt.mutate(&in)
			_, err := svc.Submit(context.Background(), in)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			assert.Empty(t, repo.Calls["Create"])
		})
	}
}

func TestContactService_SubjectIsOptional(t *testing.T) {
	svc := NewContactService(mock.NewMessageRepository(), nil, nil, nil)

	in := validContactInput()
	in.Subject = ""
	msg, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, msg.Subject)
}

func TestContactService_NotificationFailureDoesNotFailSubmit(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("mailgun down")}
	svc := NewContactService(mock.NewMessageRepository(), nil, notifier, nil)

	_, err := svc.Submit(context.Background(), validContactInput())
	require.NoError(t, err)
	svc.Wait()
	assert.Len(t, notifier.sent, 1)
}

func TestContactService_EncryptsAtRest(t *testing.T) {
	enc, err := NewEncryptor(testEncryptionKey)
	require.NoError(t, err)

	store := database.NewMemoryStore()
	repo := repositories.NewMessageStore(store)
	svc := NewContactService(repo, enc, nil, nil)
	ctx := context.Background()

	_, err = svc.Submit(ctx, validContactInput())
	require.NoError(t, err)

	raw, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.True(t, strings.HasPrefix(raw[0].Email, encryptedPrefix))
	assert.True(t, strings.HasPrefix(raw[0].Message, encryptedPrefix))
	assert.Equal(t, "Ayşe Yılmaz", raw[0].Name)

	listed, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "ayse@example.com", listed[0].Email)
	assert.Equal(t, "Yazılarınızı çok beğeniyorum.", listed[0].Message)
}

func TestContactService_ListNewestFirstWithFilter(t *testing.T) {
	repo := repositories.NewMessageStore(database.NewMemoryStore())
	svc := NewContactService(repo, nil, nil, nil)
	ctx := context.Background()

	clock := fixedNow
	svc.now = func() time.Time { return clock }
	var ids []string
	for i := 0; i < 3; i++ {
		msg, err := svc.Submit(ctx, validContactInput())
		require.NoError(t, err)
		ids = append(ids, msg.ID)
		clock = clock.Add(time.Minute)
	}
	require.NoError(t, svc.UpdateStatus(ctx, ids[1], "read"))

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	unread, err := svc.List(ctx, "new")
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	read, err := svc.List(ctx, "read")
	require.NoError(t, err)
	require.Len(t, read, 1)
	assert.Equal(t, ids[1], read[0].ID)

	_, err = svc.List(ctx, "archived")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestContactService_UpdateStatus(t *testing.T) {
	t.Run("invalid status never reaches the store", func(t *testing.T) {
		repo := mock.NewMessageRepository()
		svc := NewContactService(repo, nil, nil, nil)

		for _, status := range []string{"", "archived", "READ", " new"} {
			err := svc.UpdateStatus(context.Background(), "1", status)
			assert.True(t, errors.Is(err, ErrValidation), "status %q: got %v", status, err)
		}
		assert.Empty(t, repo.Calls["UpdateStatus"])
	})

	t.Run("missing message", func(t *testing.T) {
		repo := mock.NewMessageRepository()
		repo.UpdateStatusFunc = func(ctx context.Context, id string, status models.MessageStatus) (bool, error) {
			return false, nil
		}
		svc := NewContactService(repo, nil, nil, nil)

		err := svc.UpdateStatus(context.Background(), "missing", "replied")
		assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
	})

	t.Run("same status twice is not an error", func(t *testing.T) {
		repo := repositories.NewMessageStore(database.NewMemoryStore())
		svc := NewContactService(repo, nil, nil, nil)
		ctx := context.Background()

		msg, err := svc.Submit(ctx, validContactInput())
		require.NoError(t, err)
		require.NoError(t, svc.UpdateStatus(ctx, msg.ID, "replied"))
		require.NoError(t, svc.UpdateStatus(ctx, msg.ID, "replied"))
	})
}
