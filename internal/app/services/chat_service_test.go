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

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
		if u.ID > f.nextID {
			f.nextID = u.ID
		}
	}
	return f
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	return user.ID, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) GetAll(ctx context.Context, active *bool, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		if active != nil && user.IsActive != *active {
			continue
		}
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeUserStore) Update(ctx context.Context, id int64, fullName, phone, photoURL *string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if fullName != nil {
		user.FullName = *fullName
	}
	if phone != nil {
		user.Phone = phone
	}
	if photoURL != nil {
		user.ProfilePhotoURL = photoURL
	}
	return nil
}

func (f *fakeUserStore) Deactivate(ctx context.Context, id int64) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsActive = false
	return nil
}

type fakeChatStore struct {
	chats  map[int64]*models.Chat
	nextID int64
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{chats: make(map[int64]*models.Chat)}
}

func (f *fakeChatStore) Create(ctx context.Context, chat *models.Chat) (int64, error) {
	f.nextID++
	chat.ID = f.nextID
	chat.CreatedAt = time.Now()
	copied := *chat
	f.chats[chat.ID] = &copied
	return chat.ID, nil
}

func (f *fakeChatStore) FindByPair(ctx context.Context, userA, userB int64) (*models.Chat, error) {
	for _, chat := range f.chats {
		if (chat.UserAID == userA && chat.UserBID == userB) ||
			(chat.UserAID == userB && chat.UserBID == userA) {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, apperrors.ErrChatNotFound
}

func (f *fakeChatStore) GetByID(ctx context.Context, id int64) (*models.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, apperrors.ErrChatNotFound
	}
	copied := *chat
	return &copied, nil
}

func (f *fakeChatStore) GetAll(ctx context.Context, filter *dto.ChatFilter) ([]*models.Chat, error) {
	var out []*models.Chat
	for _, chat := range f.chats {
		if filter != nil && filter.ParticipantID != nil && !chat.HasParticipant(*filter.ParticipantID) {
			continue
		}
		copied := *chat
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeChatStore) SetActive(ctx context.Context, id int64, active bool) error {
	chat, ok := f.chats[id]
	if !ok {
		return apperrors.ErrChatNotFound
	}
	chat.Active = active
	return nil
}

func (f *fakeChatStore) DeleteWithMessages(ctx context.Context, id int64) error {
	if _, ok := f.chats[id]; !ok {
		return apperrors.ErrChatNotFound
	}
	delete(f.chats, id)
	return nil
}

func newChatFixture() (ChatService, *fakeChatStore) {
	store := newFakeChatStore()
	users := newFakeUserStore(
		&models.User{ID: 1, Email: "a@example.com", IsActive: true},
		&models.User{ID: 2, Email: "b@example.com", IsActive: true},
	)
	return NewChatService(store, users, zerolog.Nop()), store
}

func TestChatGetOrCreateRejectsSelfChat(t *testing.T) {
	svc, _ := newChatFixture()

	_, _, err := svc.GetOrCreate(context.Background(), &dto.CreateChatRequest{UserAID: 1, UserBID: 1})
	if !errors.Is(err, apperrors.ErrSelfChat) {
		t.Fatalf("expected ErrSelfChat, got %v", err)
	}
}

func TestChatGetOrCreateUnknownUser(t *testing.T) {
	svc, _ := newChatFixture()

	_, _, err := svc.GetOrCreate(context.Background(), &dto.CreateChatRequest{UserAID: 1, UserBID: 99})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChatPairIsUnordered(t *testing.T) {
	svc, store := newChatFixture()
	ctx := context.Background()

	chat, preExisting, err := svc.GetOrCreate(ctx, &dto.CreateChatRequest{UserAID: 1, UserBID: 2})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if preExisting {
		t.Fatalf("first call must create the chat")
	}
	if !chat.Active {
		t.Fatalf("new chat must start active")
	}

	// The reversed pair resolves to the same chat
	again, preExisting, err := svc.GetOrCreate(ctx, &dto.CreateChatRequest{UserAID: 2, UserBID: 1})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !preExisting {
		t.Fatalf("second call must report a pre-existing chat")
	}
	if again.ID != chat.ID {
		t.Fatalf("expected chat %d, got %d", chat.ID, again.ID)
	}
	if len(store.chats) != 1 {
		t.Fatalf("expected a single chat, got %d", len(store.chats))
	}
}

func TestChatSetActive(t *testing.T) {
	svc, store := newChatFixture()
	ctx := context.Background()

	chat, _, err := svc.GetOrCreate(ctx, &dto.CreateChatRequest{UserAID: 1, UserBID: 2})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if err := svc.SetActive(ctx, chat.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if store.chats[chat.ID].Active {
		t.Fatalf("expected chat to be inactive")
	}

	if err := svc.SetActive(ctx, 999, false); !errors.Is(err, apperrors.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestChatDelete(t *testing.T) {
	svc, store := newChatFixture()
	ctx := context.Background()

	chat, _, err := svc.GetOrCreate(ctx, &dto.CreateChatRequest{UserAID: 1, UserBID: 2})
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	if err := svc.Delete(ctx, chat.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := store.chats[chat.ID]; ok {
		t.Fatalf("expected chat to be removed")
	}
}
