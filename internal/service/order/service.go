package order

import (
	"context"
	"fmt"
	"time"

	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/qr"
	"github.com/zerofoodhero/api/internal/repository"
	"github.com/zerofoodhero/api/internal/service/donation"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
)

// Service manages NGO batch orders. An order records the reservation; the
// underlying donations remain the source of truth for pickup and delivery
// state, so order status is always derived from them.
type Service interface {
	Create(ctx context.Context, ngo *model.User, req *model.CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	ByNGO(ctx context.Context, ngoID string) ([]*model.Order, error)
	List(ctx context.Context) ([]*model.Order, error)
}

type service struct {
	repo        repository.OrderRepository
	donations   donation.Service
	donationRep repository.DonationRepository
	baseURL     string
	log         *logger.Logger
}

func NewService(
	repo repository.OrderRepository,
	donations donation.Service,
	donationRep repository.DonationRepository,
	baseURL string,
	log *logger.Logger,
) Service {
	return &service{
		repo:        repo,
		donations:   donations,
		donationRep: donationRep,
		baseURL:     baseURL,
		log:         log,
	}
}

// Create reserves every listed donation (transitioning each to ordered) and
// persists the batch record. A donation that cannot be reserved aborts the
// whole order before anything is written.
func (s *service) Create(ctx context.Context, ngo *model.User, req *model.CreateOrderRequest) (*model.Order, error) {
	items := make([]model.OrderItem, 0, len(req.DonationIDs))
	for _, id := range req.DonationIDs {
		d, err := s.donations.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if d.Status != model.DonationStatusAvailable {
			return nil, apperrors.Conflict(
				fmt.Sprintf("donation %s is %s, not available", id, d.Status), nil)
		}
		items = append(items, model.OrderItem{
			DonationID: d.ID,
			Quantity:   d.Quantity,
			Unit:       d.Unit,
			DonorName:  d.DonorName,
			FoodType:   d.FoodType,
			QRPayload:  qr.DeepLink(s.baseURL, d.ID),
		})
	}

	for _, item := range items {
		if _, err := s.donations.Order(ctx, ngo, item.DonationID); err != nil {
			return nil, fmt.Errorf("failed to reserve donation %s: %w", item.DonationID, err)
		}
	}

	o := &model.Order{
		ID:              model.NewID(),
		NGOID:           ngo.ID,
		NGOName:         ngo.Name,
		Items:           items,
		Status:          model.OrderStatusPendingPickup,
		DeliveryAddress: req.DeliveryAddress,
		TotalItems:      len(items),
		CreatedAt:       time.Now(),
	}
	if err := s.repo.Add(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return o, nil
}

func (s *service) Get(ctx context.Context, id string) (*model.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFound("order", err)
	}
	s.deriveStatus(ctx, o)
	return o, nil
}

func (s *service) ByNGO(ctx context.Context, ngoID string) ([]*model.Order, error) {
	orders, err := s.repo.GetByNGO(ctx, ngoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, o := range orders {
		s.deriveStatus(ctx, o)
	}
	return orders, nil
}

// List returns every order across NGOs; the admin view.
func (s *service) List(ctx context.Context) ([]*model.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	for _, o := range orders {
		s.deriveStatus(ctx, o)
	}
	return orders, nil
}

// deriveStatus folds the line items' donation statuses into the aggregate:
// completed once every item is delivered, in_progress as soon as any item
// moved past ordered.
func (s *service) deriveStatus(ctx context.Context, o *model.Order) {
	if len(o.Items) == 0 {
		return
	}

	delivered, moving := 0, 0
	for _, item := range o.Items {
		d, err := s.donationRep.GetByID(ctx, item.DonationID)
		if err != nil {
			continue
		}
		switch d.Status {
		case model.DonationStatusDelivered:
			delivered++
			moving++
		case model.DonationStatusPicked, model.DonationStatusInTransit:
			moving++
		}
	}

	switch {
	case delivered == len(o.Items):
		o.Status = model.OrderStatusCompleted
	case moving > 0:
		o.Status = model.OrderStatusInProgress
	default:
		o.Status = model.OrderStatusPendingPickup
	}
}
