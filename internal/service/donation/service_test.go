package donation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository/kv"
	"github.com/zerofoodhero/api/internal/service/gamification"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/internal/storage"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
	"github.com/zerofoodhero/api/pkg/messaging"
)

const testBaseURL = "http://localhost:8080"

type testEnv struct {
	svc    Service
	points gamification.Service
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
	svc := NewService(kv.NewDonationRepository(store, log), points, notifier, messaging.NewMemoryBroker(), testBaseURL, log)
	return &testEnv{svc: svc, points: points}
}

var (
	donor     = &model.User{ID: "donor-1", Name: "Asha Kitchen", Role: model.RoleDonor}
	volunteer = &model.User{ID: "vol-1", Name: "Ravi", Role: model.RoleVolunteer}
	ngo       = &model.User{ID: "ngo-1", Name: "Food Bank", Role: model.RoleNGO}
)

func createDonation(t *testing.T, svc Service) *model.Donation {
	t.Helper()
	d, err := svc.Create(context.Background(), donor, &model.CreateDonationRequest{
		FoodType: "Rice and curry",
		Category: model.CategoryCooked,
		Quantity: 5,
		Unit:     "kg",
		Address:  "12 MG Road, Mumbai",
	})
	require.NoError(t, err)
	return d
}

func TestCreateDonation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, model.DonationStatusAvailable, d.Status)
	assert.Equal(t, "Asha Kitchen", d.DonorName)
	assert.Equal(t, testBaseURL+"/donations/"+d.ID, d.QRPayload)

	// address geocoded: Mumbai is a known city
	assert.Equal(t, 19.0760, d.Location.Latitude)

	// donor earned creation points
	stats, err := env.points.Stats(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, gamification.PointsDonationCreated, stats.TotalPoints)
	assert.Equal(t, 1, stats.DonationsMade)
}

func TestFullLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)

	d, err := env.svc.Order(ctx, ngo, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusOrdered, d.Status)
	assert.Equal(t, ngo.ID, d.NGOID)

	d, err = env.svc.Claim(ctx, volunteer, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusPicked, d.Status)
	assert.Equal(t, volunteer.ID, d.VolunteerID)

	d, err = env.svc.MarkInTransit(ctx, volunteer, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusInTransit, d.Status)

	d, err = env.svc.MarkDelivered(ctx, volunteer, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusDelivered, d.Status)

	// volunteer earned pickup + delivery points and the food-saved counter
	stats, err := env.points.Stats(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, gamification.PointsVolunteerPickup+gamification.PointsVolunteerDelivery, stats.TotalPoints)
	assert.Equal(t, 5.0, stats.FoodSavedKg)

	// donor got the delivery bonus on top of the creation award
	stats, err = env.points.Stats(ctx, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, gamification.PointsDonationCreated+gamification.PointsDonationDelivered, stats.TotalPoints)
}

func TestClaimSkippingOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// a volunteer can claim an available donation directly
	d := createDonation(t, env.svc)
	d, err := env.svc.Claim(ctx, volunteer, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusPicked, d.Status)

	// and deliver straight from picked
	d, err = env.svc.MarkDelivered(ctx, volunteer, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusDelivered, d.Status)
}

func TestByNGOListsReservedDonations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reserved := createDonation(t, env.svc)
	createDonation(t, env.svc) // stays available, belongs to no NGO

	_, err := env.svc.Order(ctx, ngo, reserved.ID)
	require.NoError(t, err)

	mine, err := env.svc.ByNGO(ctx, ngo.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, reserved.ID, mine[0].ID)
	assert.Equal(t, model.DonationStatusOrdered, mine[0].Status)

	other, err := env.svc.ByNGO(ctx, "ngo-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)

	// in_transit requires picked
	_, err := env.svc.MarkInTransit(ctx, volunteer, d.ID)
	assertConflict(t, err)

	// delivered requires picked or in_transit
	_, err = env.svc.MarkDelivered(ctx, volunteer, d.ID)
	assertConflict(t, err)

	_, err = env.svc.Claim(ctx, volunteer, d.ID)
	require.NoError(t, err)

	// ordering a picked donation is rejected
	_, err = env.svc.Order(ctx, ngo, d.ID)
	assertConflict(t, err)

	_, err = env.svc.MarkDelivered(ctx, volunteer, d.ID)
	require.NoError(t, err)

	// terminal states accept nothing
	_, err = env.svc.Claim(ctx, volunteer, d.ID)
	assertConflict(t, err)
	_, err = env.svc.Cancel(ctx, donor, d.ID)
	assertConflict(t, err)
}

func assertConflict(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestVolunteerOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)
	_, err := env.svc.Claim(ctx, volunteer, d.ID)
	require.NoError(t, err)

	other := &model.User{ID: "vol-2", Name: "Meena", Role: model.RoleVolunteer}
	_, err = env.svc.MarkInTransit(ctx, other, d.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)

	// only the donor may cancel
	_, err := env.svc.Cancel(ctx, &model.User{ID: "someone-else", Role: model.RoleDonor}, d.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)

	d, err = env.svc.Cancel(ctx, donor, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusExpired, d.Status)

	// cancelled donations drop out of the available feed but not history
	available, err := env.svc.Available(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	mine, err := env.svc.ByDonor(ctx, donor.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestForceStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)
	d, err := env.svc.ForceStatus(ctx, d.ID, model.DonationStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusDelivered, d.Status)

	_, err = env.svc.ForceStatus(ctx, "missing", model.DonationStatusAvailable)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	d := createDonation(t, env.svc)

	got, err := env.svc.Resolve(ctx, d.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	_, err = env.svc.Resolve(ctx, "gibberish")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestNearbyDefaultsRadius(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	createDonation(t, env.svc)

	got, err := env.svc.Nearby(ctx, &model.NearbyQuery{Latitude: 19.0760, Longitude: 72.8777})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].DistanceKm)
}
