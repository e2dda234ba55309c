package kv

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zerofoodhero/api/internal/geo"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/logger"
)

// defaultExpiryWindow replaces a missing or unparseable expiry on read
const defaultExpiryWindow = 7 * 24 * time.Hour

type donationRepository struct {
	store storage.Store
	log   *logger.Logger
	mu    sync.Mutex
}

func NewDonationRepository(store storage.Store, log *logger.Logger) repository.DonationRepository {
	return &donationRepository{store: store, log: log}
}

func (r *donationRepository) load(ctx context.Context) []*model.Donation {
	items := readCollection[*model.Donation](ctx, r.store, r.log, keyDonations)
	now := time.Now()
	for _, d := range items {
		rehydrate(d, now)
	}
	return items
}

// rehydrate fills invalid date fields with safe defaults instead of failing
// the read.
func rehydrate(d *model.Donation, now time.Time) {
	if d.Expiry.IsZero() {
		d.Expiry = now.Add(defaultExpiryWindow)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	if d.Status == "" {
		d.Status = model.DonationStatusAvailable
	}
}

func (r *donationRepository) persist(ctx context.Context, items []*model.Donation) error {
	if err := writeCollection(ctx, r.store, keyDonations, items); err != nil {
		return fmt.Errorf("failed to persist donations: %w", err)
	}
	return nil
}

// Reconcile runs the lazy expiry sweep: every available donation whose expiry
// has passed becomes expired. The collection is rewritten at most once per
// sweep and the call is idempotent.
func (r *donationRepository) Reconcile(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	now := time.Now()

	expired := 0
	for _, d := range items {
		if d.Status == model.DonationStatusAvailable && d.Expiry.Before(now) {
			d.Status = model.DonationStatusExpired
			d.UpdatedAt = now
			expired++
		}
	}

	if expired == 0 {
		return 0, nil
	}
	if err := r.persist(ctx, items); err != nil {
		return 0, err
	}
	return expired, nil
}

func (r *donationRepository) List(ctx context.Context) ([]*model.Donation, error) {
	if _, err := r.Reconcile(ctx); err != nil {
		return nil, err
	}
	return r.load(ctx), nil
}

func (r *donationRepository) Add(ctx context.Context, d *model.Donation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	// newest first, like the original list ordering
	items = append([]*model.Donation{d}, items...)
	return r.persist(ctx, items)
}

// Update merges non-nil patch fields into the matching record and stamps the
// update time. A missing id is a no-op returning (nil, nil).
func (r *donationRepository) Update(ctx context.Context, id string, patch *model.DonationPatch) (*model.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	for _, d := range items {
		if d.ID != id {
			continue
		}
		applyPatch(d, patch)
		d.UpdatedAt = time.Now()
		if err := r.persist(ctx, items); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, nil
}

func applyPatch(d *model.Donation, p *model.DonationPatch) {
	if p == nil {
		return
	}
	if p.FoodType != nil {
		d.FoodType = *p.FoodType
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.Quantity != nil {
		d.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		d.Unit = *p.Unit
	}
	if p.Expiry != nil {
		d.Expiry = *p.Expiry
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.VolunteerID != nil {
		d.VolunteerID = *p.VolunteerID
	}
	if p.VolunteerName != nil {
		d.VolunteerName = *p.VolunteerName
	}
	if p.NGOID != nil {
		d.NGOID = *p.NGOID
	}
	if p.NGOName != nil {
		d.NGOName = *p.NGOName
	}
	if p.QRPayload != nil {
		d.QRPayload = *p.QRPayload
	}
}

func (r *donationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.load(ctx)
	kept := items[:0]
	for _, d := range items {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	return r.persist(ctx, kept)
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	for _, d := range r.load(ctx) {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("donation %s: %w", id, storage.ErrKeyNotFound)
}

func (r *donationRepository) GetByStatus(ctx context.Context, status model.DonationStatus) ([]*model.Donation, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Donation
	for _, d := range all {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *donationRepository) GetByDonor(ctx context.Context, donorID string) ([]*model.Donation, error) {
	return r.filter(ctx, func(d *model.Donation) bool { return d.DonorID == donorID })
}

func (r *donationRepository) GetByVolunteer(ctx context.Context, volunteerID string) ([]*model.Donation, error) {
	return r.filter(ctx, func(d *model.Donation) bool { return d.VolunteerID == volunteerID })
}

func (r *donationRepository) GetByNGO(ctx context.Context, ngoID string) ([]*model.Donation, error) {
	return r.filter(ctx, func(d *model.Donation) bool { return d.NGOID == ngoID })
}

func (r *donationRepository) filter(ctx context.Context, keep func(*model.Donation) bool) ([]*model.Donation, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Donation
	for _, d := range all {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Nearby keeps donations within radiusKm of the reference point, or whose
// address fuzzy-matches the supplied one, sorted ascending by distance.
func (r *donationRepository) Nearby(ctx context.Context, lat, lng, radiusKm float64, address string) ([]*repository.DonationWithDistance, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []*repository.DonationWithDistance
	for _, d := range all {
		dist := geo.Distance(lat, lng, d.Location.Latitude, d.Location.Longitude)
		inRadius := dist <= radiusKm
		matches := address != "" && geo.AddressesMatch(address, d.Location.Address, geo.MatchThreshold)
		if inRadius || matches {
			out = append(out, &repository.DonationWithDistance{Donation: d, DistanceKm: dist})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
