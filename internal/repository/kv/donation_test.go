package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

func newDonationRepo(t *testing.T) (repository.DonationRepository, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { store.Close() })
	return NewDonationRepository(store, logger.NewLogger(nil)), store
}

func fixtureDonation(id string, status model.DonationStatus, expiry time.Time) *model.Donation {
	now := time.Now()
	return &model.Donation{
		ID:        id,
		FoodType:  "Rice",
		Category:  model.CategoryCooked,
		Quantity:  5,
		Unit:      "kg",
		Expiry:    expiry,
		Status:    status,
		DonorID:   "donor-1",
		DonorName: "Asha Kitchen",
		Location:  model.Location{Latitude: 19.0760, Longitude: 72.8777, Address: "12 MG Road, Mumbai"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDonationCRUD(t *testing.T) {
	repo, _ := newDonationRepo(t)
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	require.NoError(t, repo.Add(ctx, fixtureDonation("d1", model.DonationStatusAvailable, future)))
	require.NoError(t, repo.Add(ctx, fixtureDonation("d2", model.DonationStatusAvailable, future)))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest first
	assert.Equal(t, "d2", all[0].ID)

	got, err := repo.GetByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Rice", got.FoodType)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	status := model.DonationStatusPicked
	vol := "vol-1"
	updated, err := repo.Update(ctx, "d1", &model.DonationPatch{Status: &status, VolunteerID: &vol})
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusPicked, updated.Status)
	assert.Equal(t, "vol-1", updated.VolunteerID)

	// unknown id is a silent no-op
	missing, err := repo.Update(ctx, "nope", &model.DonationPatch{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, "d2"))
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDonationExpirySweep(t *testing.T) {
	repo, _ := newDonationRepo(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	require.NoError(t, repo.Add(ctx, fixtureDonation("stale", model.DonationStatusAvailable, past)))
	require.NoError(t, repo.Add(ctx, fixtureDonation("fresh", model.DonationStatusAvailable, future)))
	// a picked donation past expiry is never swept
	require.NoError(t, repo.Add(ctx, fixtureDonation("claimed", model.DonationStatusPicked, past)))

	expired, err := repo.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// idempotent: a second sweep finds nothing
	expired, err = repo.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)

	stale, err := repo.GetByID(ctx, "stale")
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusExpired, stale.Status)

	claimed, err := repo.GetByID(ctx, "claimed")
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusPicked, claimed.Status)
}

func TestDonationListSweeps(t *testing.T) {
	repo, _ := newDonationRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, fixtureDonation("stale", model.DonationStatusAvailable, time.Now().Add(-time.Minute))))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, model.DonationStatusExpired, all[0].Status)
}

func TestDonationRehydrateDefaults(t *testing.T) {
	repo, store := newDonationRepo(t)
	ctx := context.Background()

	// record with missing dates and status, as a partial client write would
	// leave it
	raw := []byte(`[{"id":"bare","food_type":"Bread","quantity":2,"unit":"kg","donor_id":"donor-1"}]`)
	require.NoError(t, store.Set(ctx, "donations", raw))

	got, err := repo.GetByID(ctx, "bare")
	require.NoError(t, err)
	assert.Equal(t, model.DonationStatusAvailable, got.Status)
	assert.False(t, got.Expiry.IsZero())
	assert.True(t, got.Expiry.After(time.Now()))
}

func TestDonationMalformedRecordSkipped(t *testing.T) {
	repo, store := newDonationRepo(t)
	ctx := context.Background()

	raw := []byte(`[{"id":"ok","food_type":"Bread","quantity":1,"unit":"kg"},"not an object"]`)
	require.NoError(t, store.Set(ctx, "donations", raw))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ok", all[0].ID)
}

func TestDonationNearby(t *testing.T) {
	repo, _ := newDonationRepo(t)
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour)

	mumbai := fixtureDonation("mumbai", model.DonationStatusAvailable, future)
	pune := fixtureDonation("pune", model.DonationStatusAvailable, future)
	pune.Location = model.Location{Latitude: 18.5204, Longitude: 73.8567, Address: "FC Road, Pune"}
	delhi := fixtureDonation("delhi", model.DonationStatusAvailable, future)
	delhi.Location = model.Location{Latitude: 28.7041, Longitude: 77.1025, Address: "CP, Delhi"}

	require.NoError(t, repo.Add(ctx, mumbai))
	require.NoError(t, repo.Add(ctx, pune))
	require.NoError(t, repo.Add(ctx, delhi))

	// 5km around Mumbai only catches the Mumbai donation
	got, err := repo.Nearby(ctx, 19.0760, 72.8777, 5, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mumbai", got[0].Donation.ID)
	assert.Equal(t, 0.0, got[0].DistanceKm)

	// 200km pulls in Pune too, sorted by distance
	got, err = repo.Nearby(ctx, 19.0760, 72.8777, 200, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "mumbai", got[0].Donation.ID)
	assert.Equal(t, "pune", got[1].Donation.ID)

	// fuzzy address match includes a donation outside the radius
	got, err = repo.Nearby(ctx, 19.0760, 72.8777, 5, "FC Road, Pune")
	require.NoError(t, err)
	require.Len(t, got, 2)
}
