package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	kafkax "github.com/fastfood-vn/backend/internal/kafka"
)

// Service wraps the store with input validation and event publishing.
// Publishers are per-topic and fire-and-forget; a nil publisher skips the event.
type Service struct {
	Store      Store
	PubCreated kafkax.Publisher
	PubStatus  kafkax.Publisher
	PubClaimed kafkax.Publisher
	Name       string
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Order, error) {
	if len(p.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range p.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s", ErrInvalidQuantity, it.MenuItemID)
		}
	}

	o, err := s.Store.CreateOrder(ctx, p)
	if err != nil {
		return nil, err
	}

	if s.PubCreated != nil {
		items := make([]ItemSnapshot, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, ItemSnapshot{
				MenuItemID: it.MenuItemID,
				Name:       it.NameSnapshot,
				PriceCents: it.PriceCentsSnapshot,
				Quantity:   it.Quantity,
				LineTotal:  it.LineTotalCents,
			})
		}
		env := kafkax.NewEnvelope(EventOrderCreated, s.Name, o.ID.String(), OrderCreatedPayload{
			OrderID:    o.ID,
			CustomerID: o.CustomerID,
			MerchantID: o.MerchantID,
			TotalCents: o.TotalCents,
			Items:      items,
		})
		s.PubCreated.Publish(kafkax.PartitionKey(o.ID.String()), kafkax.MustMarshal(env),
			kafkax.TypeHeaders(EventOrderCreated)...)
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.Store.GetOrder(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next Status) (*Order, error) {
	if !next.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	o, prev, err := s.Store.SetStatus(ctx, id, next)
	if err != nil {
		return nil, err
	}
	s.publishStatusChanged(o.ID, prev, o.Status)
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.SetStatus(ctx, id, StatusCanceled)
}

// Claim binds the shipper to a ready, unassigned order; exactly one concurrent
// claimer wins, the rest get ErrOrderNotAvailable.
func (s *Service) Claim(ctx context.Context, orderID, shipperID uuid.UUID) (*Order, error) {
	o, err := s.Store.Claim(ctx, orderID, shipperID)
	if err != nil {
		return nil, err
	}
	if s.PubClaimed != nil {
		env := kafkax.NewEnvelope(EventOrderClaimed, s.Name, o.ID.String(), OrderClaimedPayload{
			OrderID:   o.ID,
			ShipperID: shipperID,
		})
		s.PubClaimed.Publish(kafkax.PartitionKey(o.ID.String()), kafkax.MustMarshal(env),
			kafkax.TypeHeaders(EventOrderClaimed)...)
	}
	s.publishStatusChanged(o.ID, StatusReadyForPickup, o.Status)
	return o, nil
}

func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.Store.MarkPaid(ctx, id)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	return s.Store.ListByCustomer(ctx, customerID)
}

func (s *Service) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]Order, error) {
	return s.Store.ListByMerchant(ctx, merchantID)
}

func (s *Service) ListAvailableForShipper(ctx context.Context, limit int) ([]Order, error) {
	return s.Store.ListAvailableForShipper(ctx, limit)
}

func (s *Service) publishStatusChanged(orderID uuid.UUID, from, to Status) {
	if s.PubStatus == nil || from == to {
		return
	}
	env := kafkax.NewEnvelope(EventOrderStatusChanged, s.Name, orderID.String(), OrderStatusChangedPayload{
		OrderID: orderID,
		From:    from,
		To:      to,
	})
	s.PubStatus.Publish(kafkax.PartitionKey(orderID.String()), kafkax.MustMarshal(env),
		kafkax.TypeHeaders(EventOrderStatusChanged)...)
}
