package donation

import (
	"context"
	"fmt"
	"time"

	"github.com/zerofoodhero/api/internal/geo"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/qr"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/service/gamification"
	"github.com/zerofoodhero/api/internal/service/notification"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
	"github.com/zerofoodhero/api/pkg/messaging"
)

// UpdatesChannel is the broker channel donation mutations are published on
const UpdatesChannel = "donations.updated"

const (
	defaultExpiryHours = 24
	defaultRadiusKm    = 10
)

// Service drives the donation lifecycle. Transitions follow the table:
//
//	available -> ordered            (NGO places order)
//	available|ordered -> picked     (volunteer claims)
//	picked -> in_transit            (volunteer)
//	picked|in_transit -> delivered  (volunteer)
//	available -> expired            (donor cancel, or expiry sweep)
//
// Anything else is rejected; ForceStatus is the administrative bypass.
type Service interface {
	Create(ctx context.Context, donor *model.User, req *model.CreateDonationRequest) (*model.Donation, error)
	Get(ctx context.Context, id string) (*model.Donation, error)
	List(ctx context.Context) ([]*model.Donation, error)
	Available(ctx context.Context) ([]*model.Donation, error)
	ByDonor(ctx context.Context, donorID string) ([]*model.Donation, error)
	ByVolunteer(ctx context.Context, volunteerID string) ([]*model.Donation, error)
	ByNGO(ctx context.Context, ngoID string) ([]*model.Donation, error)
	Nearby(ctx context.Context, q *model.NearbyQuery) ([]*repository.DonationWithDistance, error)
	Order(ctx context.Context, ngo *model.User, id string) (*model.Donation, error)
	Claim(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error)
	MarkInTransit(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error)
	MarkDelivered(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error)
	Cancel(ctx context.Context, donor *model.User, id string) (*model.Donation, error)
	ForceStatus(ctx context.Context, id string, status model.DonationStatus) (*model.Donation, error)
	Delete(ctx context.Context, id string) error
	Resolve(ctx context.Context, payload string) (*model.Donation, error)
}

type service struct {
	repo     repository.DonationRepository
	points   gamification.Service
	notifier notification.Service
	broker   messaging.Broker
	baseURL  string
	log      *logger.Logger
}

func NewService(
	repo repository.DonationRepository,
	points gamification.Service,
	notifier notification.Service,
	broker messaging.Broker,
	baseURL string,
	log *logger.Logger,
) Service {
	return &service{
		repo:     repo,
		points:   points,
		notifier: notifier,
		broker:   broker,
		baseURL:  baseURL,
		log:      log,
	}
}

func (s *service) Create(ctx context.Context, donor *model.User, req *model.CreateDonationRequest) (*model.Donation, error) {
	lat, lng := req.Latitude, req.Longitude
	if lat == 0 && lng == 0 {
		lat, lng = geo.CoordinatesFromAddress(req.Address)
	}

	hours := req.ExpiryHours
	if hours <= 0 {
		hours = defaultExpiryHours
	}

	category := req.Category
	if category == "" {
		category = model.CategoryOther
	}

	now := time.Now()
	d := &model.Donation{
		ID:        model.NewID(),
		FoodType:  req.FoodType,
		Category:  category,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Expiry:    now.Add(time.Duration(hours) * time.Hour),
		Status:    model.DonationStatusAvailable,
		DonorID:   donor.ID,
		DonorName: donor.Name,
		Location:  model.Location{Latitude: lat, Longitude: lng, Address: req.Address},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.AIConfidence != nil {
		d.AIConfidence = *req.AIConfidence
	}
	d.QRPayload = qr.DeepLink(s.baseURL, d.ID)

	if err := s.repo.Add(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	if _, err := s.points.AddPoints(ctx, donor.ID, gamification.PointsDonationCreated,
		"donation created", gamification.Counters{Donations: 1}); err != nil {
		s.log.Error(err, "point award failed", "donation_id", d.ID)
	}

	s.notify(ctx, donor.ID, model.NotificationDonation, "Donation posted",
		fmt.Sprintf("Your %s donation is now visible to volunteers and NGOs.", d.FoodType), d.ID)
	s.publish(ctx, "created", d)

	return d, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Donation, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("donation", err)
	}
	return d, nil
}

func (s *service) List(ctx context.Context) ([]*model.Donation, error) {
	return s.repo.List(ctx)
}

func (s *service) Available(ctx context.Context) ([]*model.Donation, error) {
	return s.repo.GetByStatus(ctx, model.DonationStatusAvailable)
}

func (s *service) ByDonor(ctx context.Context, donorID string) ([]*model.Donation, error) {
	return s.repo.GetByDonor(ctx, donorID)
}

func (s *service) ByVolunteer(ctx context.Context, volunteerID string) ([]*model.Donation, error) {
	return s.repo.GetByVolunteer(ctx, volunteerID)
}

func (s *service) ByNGO(ctx context.Context, ngoID string) ([]*model.Donation, error) {
	return s.repo.GetByNGO(ctx, ngoID)
}

func (s *service) Nearby(ctx context.Context, q *model.NearbyQuery) ([]*repository.DonationWithDistance, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	return s.repo.Nearby(ctx, q.Latitude, q.Longitude, radius, q.Address)
}

// Order reserves an available donation for an NGO
func (s *service) Order(ctx context.Context, ngo *model.User, id string) (*model.Donation, error) {
	d, err := s.transition(ctx, id, model.DonationStatusOrdered,
		[]model.DonationStatus{model.DonationStatusAvailable},
		&model.DonationPatch{NGOID: &ngo.ID, NGOName: &ngo.Name})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, d.DonorID, model.NotificationDonation, "Donation reserved",
		fmt.Sprintf("%s reserved your %s donation.", ngo.Name, d.FoodType), d.ID)
	s.publish(ctx, "ordered", d)
	return d, nil
}

// Claim assigns the donation to a volunteer and marks it picked
func (s *service) Claim(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error) {
	d, err := s.transition(ctx, id, model.DonationStatusPicked,
		[]model.DonationStatus{model.DonationStatusAvailable, model.DonationStatusOrdered},
		&model.DonationPatch{VolunteerID: &volunteer.ID, VolunteerName: &volunteer.Name})
	if err != nil {
		return nil, err
	}

	if _, err := s.points.AddPoints(ctx, volunteer.ID, gamification.PointsVolunteerPickup,
		"donation picked up", gamification.Counters{}); err != nil {
		s.log.Error(err, "point award failed", "donation_id", d.ID)
	}

	s.notify(ctx, d.DonorID, model.NotificationPickup, "Donation picked up",
		fmt.Sprintf("%s picked up your %s donation.", volunteer.Name, d.FoodType), d.ID)
	s.publish(ctx, "picked", d)
	return d, nil
}

func (s *service) MarkInTransit(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error) {
	if err := s.requireVolunteer(ctx, volunteer, id); err != nil {
		return nil, err
	}

	d, err := s.transition(ctx, id, model.DonationStatusInTransit,
		[]model.DonationStatus{model.DonationStatusPicked}, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "in_transit", d)
	return d, nil
}

func (s *service) MarkDelivered(ctx context.Context, volunteer *model.User, id string) (*model.Donation, error) {
	if err := s.requireVolunteer(ctx, volunteer, id); err != nil {
		return nil, err
	}

	d, err := s.transition(ctx, id, model.DonationStatusDelivered,
		[]model.DonationStatus{model.DonationStatusPicked, model.DonationStatusInTransit}, nil)
	if err != nil {
		return nil, err
	}

	kg := foodSavedKg(d)
	if _, err := s.points.AddPoints(ctx, volunteer.ID, gamification.PointsVolunteerDelivery,
		"donation delivered", gamification.Counters{Deliveries: 1, FoodSavedKg: kg}); err != nil {
		s.log.Error(err, "point award failed", "donation_id", d.ID)
	}
	if _, err := s.points.AddPoints(ctx, d.DonorID, gamification.PointsDonationDelivered,
		"donation reached someone in need", gamification.Counters{FoodSavedKg: kg}); err != nil {
		s.log.Error(err, "point award failed", "donation_id", d.ID)
	}

	s.notify(ctx, d.DonorID, model.NotificationDelivery, "Donation delivered",
		fmt.Sprintf("Your %s donation was delivered.", d.FoodType), d.ID)
	s.publish(ctx, "delivered", d)
	return d, nil
}

// Cancel is the donor-initiated available -> expired transition
func (s *service) Cancel(ctx context.Context, donor *model.User, id string) (*model.Donation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.DonorID != donor.ID {
		return nil, apperrors.Forbidden("only the donor can cancel a donation", nil)
	}

	d, err := s.transition(ctx, id, model.DonationStatusExpired,
		[]model.DonationStatus{model.DonationStatusAvailable}, nil)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "cancelled", d)
	return d, nil
}

// ForceStatus bypasses the transition table for admin and test tooling
func (s *service) ForceStatus(ctx context.Context, id string, status model.DonationStatus) (*model.Donation, error) {
	d, err := s.repo.Update(ctx, id, &model.DonationPatch{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	if d == nil {
		return nil, apperrors.NotFound("donation", nil)
	}
	s.publish(ctx, "forced", d)
	return d, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete donation: %w", err)
	}
	return nil
}

// Resolve looks up the donation a scanned QR payload points at
func (s *service) Resolve(ctx context.Context, payload string) (*model.Donation, error) {
	id := qr.Resolve(payload)
	if id == "" {
		return nil, apperrors.BadRequest("payload carries no donation id", nil)
	}
	return s.Get(ctx, id)
}

// transition validates the current state against the allowed set, then
// applies the patch with the new status.
func (s *service) transition(ctx context.Context, id string, to model.DonationStatus, from []model.DonationStatus, patch *model.DonationPatch) (*model.Donation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, st := range from {
		if current.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.Conflict(
			fmt.Sprintf("cannot move donation from %s to %s", current.Status, to), nil)
	}

	if patch == nil {
		patch = &model.DonationPatch{}
	}
	patch.Status = &to

	d, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update donation: %w", err)
	}
	if d == nil {
		return nil, apperrors.NotFound("donation", nil)
	}
	return d, nil
}

func (s *service) requireVolunteer(ctx context.Context, volunteer *model.User, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if current.VolunteerID != "" && current.VolunteerID != volunteer.ID {
		return apperrors.Forbidden("donation is assigned to another volunteer", nil)
	}
	return nil
}

// foodSavedKg converts the quantity to kilograms for the food-saved counter;
// non-weight units count nothing.
func foodSavedKg(d *model.Donation) float64 {
	switch d.Unit {
	case "kg", "kgs", "kilograms":
		return d.Quantity
	case "g", "grams":
		return d.Quantity / 1000
	default:
		return 0
	}
}

func (s *service) notify(ctx context.Context, userID string, typ model.NotificationType, title, msg, donationID string) {
	link := "/donations/" + donationID
	if err := s.notifier.Notify(ctx, userID, typ, title, msg, link, model.JSONMap{"donation_id": donationID}); err != nil {
		s.log.Error(err, "notification failed", "donation_id", donationID)
	}
}

func (s *service) publish(ctx context.Context, event string, d *model.Donation) {
	msg := messaging.Message{Type: event, Payload: d}
	if err := s.broker.Publish(ctx, UpdatesChannel, msg); err != nil {
		s.log.Error(err, "publish failed", "donation_id", d.ID)
	}
}
