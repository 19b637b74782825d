package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/circularis/backend/internal/app/models"
	"github.com/circularis/backend/internal/app/models/dto"
	"github.com/circularis/backend/internal/pkg/apperrors"
)

type fakeMessageStore struct {
	messages map[int64]*models.Message
	nextID   int64
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[int64]*models.Message)}
}

func (f *fakeMessageStore) Create(ctx context.Context, message *models.Message) (int64, error) {
	f.nextID++
	message.ID = f.nextID
	message.SentAt = time.Now()
	copied := *message
	f.messages[message.ID] = &copied
	return message.ID, nil
}

func (f *fakeMessageStore) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	message, ok := f.messages[id]
	if !ok {
		return nil, apperrors.ErrMessageNotFound
	}
	copied := *message
	return &copied, nil
}

func (f *fakeMessageStore) GetAll(ctx context.Context, filter *dto.MessageFilter) ([]*models.Message, error) {
	var out []*models.Message
	for _, message := range f.messages {
		if filter != nil && filter.ChatID != nil && message.ChatID != *filter.ChatID {
			continue
		}
		copied := *message
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeMessageStore) MarkRead(ctx context.Context, id int64) error {
	message, ok := f.messages[id]
	if !ok {
		return apperrors.ErrMessageNotFound
	}
	message.Read = true
	return nil
}

func (f *fakeMessageStore) MarkAllRead(ctx context.Context, chatID, callerID int64) (int64, error) {
	var count int64
	for _, message := range f.messages {
		if message.ChatID == chatID && message.SenderID != callerID && !message.Read {
			message.Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) CountUnread(ctx context.Context, chatID, callerID int64) (int64, error) {
	var count int64
	for _, message := range f.messages {
		if message.ChatID == chatID && message.SenderID != callerID && !message.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return apperrors.ErrMessageNotFound
	}
	delete(f.messages, id)
	return nil
}

type fakeChatReader struct {
	chats map[int64]*models.Chat
}

func (f *fakeChatReader) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, apperrors.ErrChatNotFound
	}
	return chat, nil
}

func newMessageFixture() (MessageService, *fakeMessageStore) {
	store := newFakeMessageStore()
	chats := &fakeChatReader{chats: map[int64]*models.Chat{
		1: {ID: 1, UserAID: 1, UserBID: 2, Active: true},
		2: {ID: 2, UserAID: 1, UserBID: 3, Active: false},
	}}
	return NewMessageService(store, chats, zerolog.Nop()), store
}

func TestSendMessageValidation(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	_, err := svc.Send(ctx, &dto.SendMessageRequest{ChatID: 99, SenderID: 1, Content: "hi"})
	if !errors.Is(err, apperrors.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}

	_, err = svc.Send(ctx, &dto.SendMessageRequest{ChatID: 2, SenderID: 1, Content: "hi"})
	if !errors.Is(err, apperrors.ErrChatInactive) {
		t.Fatalf("expected ErrChatInactive, got %v", err)
	}

	_, err = svc.Send(ctx, &dto.SendMessageRequest{ChatID: 1, SenderID: 3, Content: "hi"})
	if !errors.Is(err, apperrors.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestSendMessageStartsUnread(t *testing.T) {
	svc, store := newMessageFixture()

	message, err := svc.Send(context.Background(), &dto.SendMessageRequest{ChatID: 1, SenderID: 1, Content: "hello"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if message.Read {
		t.Fatalf("new message must start unread")
	}
	if message.Content != "hello" || message.SenderID != 1 {
		t.Fatalf("unexpected message %+v", message)
	}
	if _, ok := store.messages[message.ID]; !ok {
		t.Fatalf("message %d not persisted", message.ID)
	}
}

func TestMarkAllReadIdempotent(t *testing.T) {
	svc, store := newMessageFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Send(ctx, &dto.SendMessageRequest{ChatID: 1, SenderID: 2, Content: "ping"}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	// The caller's own message must stay untouched
	own, err := svc.Send(ctx, &dto.SendMessageRequest{ChatID: 1, SenderID: 1, Content: "pong"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	count, err := svc.MarkAllRead(ctx, 1, 1)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 messages marked, got %d", count)
	}
	if store.messages[own.ID].Read {
		t.Fatalf("caller's own message must not be marked read")
	}

	count, err = svc.MarkAllRead(ctx, 1, 1)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 on repeat call, got %d", count)
	}
}

func TestMarkAllReadRequiresParticipant(t *testing.T) {
	svc, _ := newMessageFixture()

	if _, err := svc.MarkAllRead(context.Background(), 1, 3); !errors.Is(err, apperrors.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestUnreadCount(t *testing.T) {
	svc, _ := newMessageFixture()
	ctx := context.Background()

	if _, err := svc.Send(ctx, &dto.SendMessageRequest{ChatID: 1, SenderID: 2, Content: "ping"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, err := svc.Send(ctx, &dto.SendMessageRequest{ChatID: 1, SenderID: 1, Content: "pong"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	count, err := svc.UnreadCount(ctx, 1, 1)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 unread message addressed to the caller, got %d", count)
	}

	if _, err := svc.UnreadCount(ctx, 1, 3); !errors.Is(err, apperrors.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}

	if _, err := svc.UnreadCount(ctx, 99, 1); !errors.Is(err, apperrors.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestListByChatChecksExistence(t *testing.T) {
	svc, _ := newMessageFixture()

	if _, err := svc.ListByChat(context.Background(), 99, 50, 0); !errors.Is(err, apperrors.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}
