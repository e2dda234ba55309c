package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository/kv"
	donationService "github.com/zerofoodhero/api/internal/service/donation"
	"github.com/zerofoodhero/api/internal/service/gamification"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/internal/storage"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
	"github.com/zerofoodhero/api/pkg/messaging"
)

var (
	donor     = &model.User{ID: "donor-1", Name: "Asha Kitchen", Role: model.RoleDonor}
	volunteer = &model.User{ID: "vol-1", Name: "Ravi", Role: model.RoleVolunteer}
	ngo       = &model.User{ID: "ngo-1", Name: "Food Bank", Role: model.RoleNGO}
)

type testEnv struct {
	orders    Service
	donations donationService.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	log := logger.NewLogger(nil)
	userRepo := kv.NewUserRepository(store, log)
	notifier := notification.NewService(
		kv.NewNotificationRepository(store, log),
		kv.NewSettingsRepository(store, log),
		userRepo,
		email.NewNoopService(),
		log,
	)
	points := gamification.NewService(kv.NewGamificationRepository(store, log), userRepo, notifier, log)
	donationRepo := kv.NewDonationRepository(store, log)
	donations := donationService.NewService(donationRepo, points, notifier, messaging.NewMemoryBroker(), "http://localhost:8080", log)
	orders := NewService(kv.NewOrderRepository(store, log), donations, donationRepo, "http://localhost:8080", log)
	return &testEnv{orders: orders, donations: donations}
}

func (e *testEnv) createDonation(t *testing.T, foodType string) *model.Donation {
	t.Helper()
	d, err := e.donations.Create(context.Background(), donor, &model.CreateDonationRequest{
		FoodType: foodType,
		Quantity: 5,
		Unit:     "kg",
		Address:  "12 MG Road, Mumbai",
	})
	require.NoError(t, err)
	return d
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d1 := env.createDonation(t, "Rice")
	d2 := env.createDonation(t, "Bread")

	o, err := env.orders.Create(ctx, ngo, &model.CreateOrderRequest{
		DonationIDs:     []string{d1.ID, d2.ID},
		DeliveryAddress: "Food Bank Warehouse, Mumbai",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPendingPickup, o.Status)
	assert.Equal(t, 2, o.TotalItems)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Asha Kitchen", o.Items[0].DonorName)
	assert.NotEmpty(t, o.Items[0].QRPayload)

	// each donation is now reserved for the NGO
	got, err := env.donations.Get(ctx, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusOrdered, got.Status)
	assert.Equal(t, ngo.ID, got.NGOID)
}

func TestCreateOrderAbortsWhenAnyUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d1 := env.createDonation(t, "Rice")
	d2 := env.createDonation(t, "Bread")
	_, err := env.donations.Claim(ctx, volunteer, d2.ID)
	require.NoError(t, err)

	_, err = env.orders.Create(ctx, ngo, &model.CreateOrderRequest{
		DonationIDs:     []string{d1.ID, d2.ID},
		DeliveryAddress: "Warehouse",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)

	// nothing was reserved
	got, err := env.donations.Get(ctx, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusAvailable, got.Status)

	orders, err := env.orders.ByNGO(ctx, ngo.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderStatusDerivedFromDonations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d1 := env.createDonation(t, "Rice")
	d2 := env.createDonation(t, "Bread")

	o, err := env.orders.Create(ctx, ngo, &model.CreateOrderRequest{
		DonationIDs:     []string{d1.ID, d2.ID},
		DeliveryAddress: "Warehouse",
	})
	require.NoError(t, err)

	// still pending while everything sits at ordered
	got, err := env.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPendingPickup, got.Status)

	// one pickup moves the order to in_progress
	_, err = env.donations.Claim(ctx, volunteer, d1.ID)
	require.NoError(t, err)
	got, err = env.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInProgress, got.Status)

	// all deliveries complete it
	_, err = env.donations.MarkDelivered(ctx, volunteer, d1.ID)
	require.NoError(t, err)
	_, err = env.donations.Claim(ctx, volunteer, d2.ID)
	require.NoError(t, err)
	_, err = env.donations.MarkDelivered(ctx, volunteer, d2.ID)
	require.NoError(t, err)

	got, err = env.orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, got.Status)
}

func TestListSpansNGOs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d1 := env.createDonation(t, "Rice")
	d2 := env.createDonation(t, "Bread")
	otherNGO := &model.User{ID: "ngo-2", Name: "Shelter Trust", Role: model.RoleNGO}

	_, err := env.orders.Create(ctx, ngo, &model.CreateOrderRequest{DonationIDs: []string{d1.ID}})
	require.NoError(t, err)
	_, err = env.orders.Create(ctx, otherNGO, &model.CreateOrderRequest{DonationIDs: []string{d2.ID}})
	require.NoError(t, err)

	all, err := env.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, o := range all {
		assert.Equal(t, model.OrderStatusPendingPickup, o.Status)
	}

	mine, err := env.orders.ByNGO(ctx, ngo.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, ngo.ID, mine[0].NGOID)
}

func TestGetMissingOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
