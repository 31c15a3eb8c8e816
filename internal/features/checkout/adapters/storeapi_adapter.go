package adapters

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/storeapi"
	"storefront/internal/features/checkout/domain"
)

// StoreAPISubmitter implements ports.OrderSubmitter with the store API.
type StoreAPISubmitter struct {
	client storeapi.APIClient
}

// NewStoreAPISubmitter creates a new StoreAPISubmitter.
func NewStoreAPISubmitter(client storeapi.APIClient) *StoreAPISubmitter {
	return &StoreAPISubmitter{client: client}
}

// SubmitOrder posts the order. The store expects one item entry per unit.
func (a *StoreAPISubmitter) SubmitOrder(ctx context.Context, order *domain.Order) (*domain.Receipt, error) {
	res, err := a.client.SubmitOrder(ctx, storeapi.OrderRequest{
		Payment: string(order.PaymentMethod),
		Address: order.DeliveryAddress,
		Email:   order.ContactEmail,
		Phone:   order.ContactPhone,
		Total:   order.Total,
		Items:   order.UnitIDs(),
	})
	if err != nil {
		if errors.Is(err, storeapi.ErrRejected) {
			return nil, fmt.Errorf("%w: %v", domain.ErrOrderRejected, err)
		}
		return nil, fmt.Errorf("adapter: failed to submit order %s: %w", order.ID, err)
	}

	return &domain.Receipt{OrderID: res.ID, Total: res.Total}, nil
}
