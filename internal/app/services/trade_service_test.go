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

type fakeTradeStore struct {
	trades    map[int64]*models.Trade
	materials map[int64]*models.Material
	nextID    int64
}

func newFakeTradeStore(materials map[int64]*models.Material) *fakeTradeStore {
	return &fakeTradeStore{
		trades:    make(map[int64]*models.Trade),
		materials: materials,
	}
}

func (f *fakeTradeStore) Create(ctx context.Context, trade *models.Trade) (int64, error) {
	f.nextID++
	trade.ID = f.nextID
	trade.RequestedAt = time.Now()
	copied := *trade
	f.trades[trade.ID] = &copied
	return trade.ID, nil
}

func (f *fakeTradeStore) GetByID(ctx context.Context, id int64) (*models.Trade, error) {
	trade, ok := f.trades[id]
	if !ok {
		return nil, apperrors.ErrTradeNotFound
	}
	copied := *trade
	return &copied, nil
}

func (f *fakeTradeStore) GetAll(ctx context.Context, filter *dto.TradeFilter) ([]*models.Trade, error) {
	var out []*models.Trade
	for _, trade := range f.trades {
		copied := *trade
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTradeStore) UpdateNotes(ctx context.Context, id int64, notes *string) error {
	trade, ok := f.trades[id]
	if !ok {
		return apperrors.ErrTradeNotFound
	}
	trade.Notes = notes
	return nil
}

func (f *fakeTradeStore) Complete(ctx context.Context, tradeID, materialID int64) error {
	trade, ok := f.trades[tradeID]
	if !ok {
		return apperrors.ErrTradeNotFound
	}
	if trade.CompletedAt != nil {
		return apperrors.ErrTradeCompleted
	}
	now := time.Now()
	trade.CompletedAt = &now
	if material, ok := f.materials[materialID]; ok {
		material.Available = false
	}
	return nil
}

func (f *fakeTradeStore) Delete(ctx context.Context, id int64) error {
	if _, ok := f.trades[id]; !ok {
		return apperrors.ErrTradeNotFound
	}
	delete(f.trades, id)
	return nil
}

type fakeMaterialReader struct {
	materials map[int64]*models.Material
}

func (f *fakeMaterialReader) GetByID(ctx context.Context, id int64) (*models.Material, error) {
	material, ok := f.materials[id]
	if !ok {
		return nil, apperrors.ErrMaterialNotFound
	}
	return material, nil
}

type notified struct {
	userID           int64
	notificationType string
}

type fakeNotifier struct {
	delivered []notified
}

func (f *fakeNotifier) Notify(ctx context.Context, userID int64, title, message, notificationType string) error {
	f.delivered = append(f.delivered, notified{userID: userID, notificationType: notificationType})
	return nil
}

func newTradeFixture() (TradeService, *fakeTradeStore, *fakeNotifier, map[int64]*models.Material) {
	materials := map[int64]*models.Material{
		10: {ID: 10, Title: "Scrap copper", OwnerID: 2, Available: true},
		11: {ID: 11, Title: "Old pallets", OwnerID: 2, Available: false},
	}
	store := newFakeTradeStore(materials)
	notifier := &fakeNotifier{}
	svc := NewTradeService(store, &fakeMaterialReader{materials: materials}, notifier, zerolog.Nop())
	return svc, store, notifier, materials
}

func TestTradeCreateValidationOrder(t *testing.T) {
	svc, _, _, _ := newTradeFixture()
	ctx := context.Background()

	// Self-trade wins even when the material does not exist
	_, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 999, RequesterID: 2, DonorID: 2})
	if !errors.Is(err, apperrors.ErrSelfTrade) {
		t.Fatalf("expected ErrSelfTrade, got %v", err)
	}

	_, err = svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 999, RequesterID: 1, DonorID: 2})
	if !errors.Is(err, apperrors.ErrMaterialNotFound) {
		t.Fatalf("expected ErrMaterialNotFound, got %v", err)
	}

	_, err = svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 11, RequesterID: 1, DonorID: 2})
	if !errors.Is(err, apperrors.ErrMaterialUnavailable) {
		t.Fatalf("expected ErrMaterialUnavailable, got %v", err)
	}

	_, err = svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 3})
	if !errors.Is(err, apperrors.ErrDonorNotOwner) {
		t.Fatalf("expected ErrDonorNotOwner, got %v", err)
	}
}

func TestTradeCreateNotifiesDonor(t *testing.T) {
	svc, store, notifier, _ := newTradeFixture()
	ctx := context.Background()

	trade, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if trade.ID == 0 {
		t.Fatalf("expected trade to receive an ID")
	}
	if _, ok := store.trades[trade.ID]; !ok {
		t.Fatalf("trade %d not persisted", trade.ID)
	}

	if len(notifier.delivered) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.delivered))
	}
	if got := notifier.delivered[0]; got.userID != 2 || got.notificationType != "trade_requested" {
		t.Fatalf("unexpected notification %+v", got)
	}
}

func TestTradeCompleteIsTerminal(t *testing.T) {
	svc, _, notifier, materials := newTradeFixture()
	ctx := context.Background()

	trade, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	completed, err := svc.Complete(ctx, trade.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !completed.IsCompleted() {
		t.Fatalf("expected completed trade")
	}
	if materials[10].Available {
		t.Fatalf("expected material to be unavailable after completion")
	}

	var gotCompleted bool
	for _, n := range notifier.delivered {
		if n.notificationType == "trade_completed" && n.userID == 1 {
			gotCompleted = true
		}
	}
	if !gotCompleted {
		t.Fatalf("expected requester to be notified of completion, got %+v", notifier.delivered)
	}

	if _, err := svc.Complete(ctx, trade.ID); !errors.Is(err, apperrors.ErrTradeCompleted) {
		t.Fatalf("expected ErrTradeCompleted on second completion, got %v", err)
	}
}

func TestTradeCancel(t *testing.T) {
	svc, store, _, _ := newTradeFixture()
	ctx := context.Background()

	trade, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Cancel(ctx, trade.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, ok := store.trades[trade.ID]; ok {
		t.Fatalf("expected cancelled trade to be removed")
	}

	if err := svc.Cancel(ctx, trade.ID); !errors.Is(err, apperrors.ErrTradeNotFound) {
		t.Fatalf("expected ErrTradeNotFound for a cancelled trade, got %v", err)
	}
}

func TestTradeCancelCompletedConflicts(t *testing.T) {
	svc, store, _, _ := newTradeFixture()
	ctx := context.Background()

	trade, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Complete(ctx, trade.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if err := svc.Cancel(ctx, trade.ID); !errors.Is(err, apperrors.ErrTradeCompleted) {
		t.Fatalf("expected ErrTradeCompleted, got %v", err)
	}
	if _, ok := store.trades[trade.ID]; !ok {
		t.Fatalf("completed trade must not be deleted")
	}
}

func TestTradeUpdateNotes(t *testing.T) {
	svc, _, _, _ := newTradeFixture()
	ctx := context.Background()

	trade, err := svc.Create(ctx, &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	notes := "pickup on saturday"
	updated, err := svc.UpdateNotes(ctx, trade.ID, &dto.UpdateTradeRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if updated.Notes == nil || *updated.Notes != notes {
		t.Fatalf("expected notes %q, got %v", notes, updated.Notes)
	}

	if _, err := svc.Complete(ctx, trade.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if _, err := svc.UpdateNotes(ctx, trade.ID, &dto.UpdateTradeRequest{Notes: &notes}); !errors.Is(err, apperrors.ErrTradeCompleted) {
		t.Fatalf("expected ErrTradeCompleted, got %v", err)
	}
}

func TestTradeCreateWithoutNotifier(t *testing.T) {
	materials := map[int64]*models.Material{
		10: {ID: 10, Title: "Scrap copper", OwnerID: 2, Available: true},
	}
	store := newFakeTradeStore(materials)
	svc := NewTradeService(store, &fakeMaterialReader{materials: materials}, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), &dto.CreateTradeRequest{MaterialID: 10, RequesterID: 1, DonorID: 2}); err != nil {
		t.Fatalf("Create with nil notifier failed: %v", err)
	}
}
