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

type fakeNotificationStore struct {
	notifications map[int64]*models.Notification
	nextID        int64
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{notifications: make(map[int64]*models.Notification)}
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *models.Notification) (int64, error) {
	f.nextID++
	notification.ID = f.nextID
	notification.SentAt = time.Now()
	copied := *notification
	f.notifications[notification.ID] = &copied
	return notification.ID, nil
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	notification, ok := f.notifications[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	copied := *notification
	return &copied, nil
}

func (f *fakeNotificationStore) GetAll(ctx context.Context, filter *dto.NotificationFilter) ([]*models.Notification, error) {
	var out []*models.Notification
	for _, notification := range f.notifications {
		if filter != nil && filter.UserID != nil && notification.UserID != *filter.UserID {
			continue
		}
		copied := *notification
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id int64) error {
	notification, ok := f.notifications[id]
	if !ok {
		return apperrors.ErrResourceNotFound
	}
	notification.Read = true
	return nil
}

func (f *fakeNotificationStore) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.Read {
			notification.Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for _, notification := range f.notifications {
		if notification.UserID == userID && !notification.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.notifications[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(f.notifications, id)
	return nil
}

type pushed struct {
	userID int64
	event  string
}

type fakePusher struct {
	events []pushed
}

func (f *fakePusher) SendToUser(userID int64, event string, payload interface{}) {
	f.events = append(f.events, pushed{userID: userID, event: event})
}

func TestNotificationCreatePushes(t *testing.T) {
	store := newFakeNotificationStore()
	pusher := &fakePusher{}
	users := newFakeUserStore(&models.User{ID: 1, IsActive: true})
	svc := NewNotificationService(store, users, pusher, zerolog.Nop())

	notification, err := svc.Create(context.Background(), &dto.CreateNotificationRequest{
		Title:   "New trade request",
		Message: "Someone wants your pallets",
		Type:    "trade_requested",
		UserID:  1,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if notification.Read {
		t.Fatalf("new notification must start unread")
	}

	if len(pusher.events) != 1 {
		t.Fatalf("expected 1 pushed event, got %d", len(pusher.events))
	}
	if got := pusher.events[0]; got.userID != 1 || got.event != "new_notification" {
		t.Fatalf("unexpected push %+v", got)
	}
}

func TestNotificationCreateUnknownUser(t *testing.T) {
	svc := NewNotificationService(newFakeNotificationStore(), newFakeUserStore(), &fakePusher{}, zerolog.Nop())

	_, err := svc.Create(context.Background(), &dto.CreateNotificationRequest{
		Title: "t", Message: "m", Type: "x", UserID: 99,
	})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNotificationCreateWithoutPusher(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 1, IsActive: true})
	svc := NewNotificationService(newFakeNotificationStore(), users, nil, zerolog.Nop())

	if err := svc.Notify(context.Background(), 1, "t", "m", "x"); err != nil {
		t.Fatalf("Notify with nil pusher failed: %v", err)
	}
}

func TestNotificationMarkAllReadForUser(t *testing.T) {
	store := newFakeNotificationStore()
	users := newFakeUserStore(&models.User{ID: 1, IsActive: true})
	svc := NewNotificationService(store, users, nil, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.Notify(ctx, 1, "t", "m", "x"); err != nil {
			t.Fatalf("Notify failed: %v", err)
		}
	}

	count, err := svc.MarkAllReadForUser(ctx, 1)
	if err != nil {
		t.Fatalf("MarkAllReadForUser failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 marked, got %d", count)
	}

	count, err = svc.MarkAllReadForUser(ctx, 1)
	if err != nil {
		t.Fatalf("MarkAllReadForUser failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 on repeat call, got %d", count)
	}
}
