package handler

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the storefront's OpenTelemetry counters. A nil *Metrics is
// valid and records nothing, which keeps tests free of meter setup.
type Metrics struct {
	wishlistAdds metric.Int64Counter
	cartAdds     metric.Int64Counter
	customOrders metric.Int64Counter
}

// NewMetrics registers the storefront counters on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("storefront-api")

	wishlistAdds, err := meter.Int64Counter("storefront.wishlist.adds",
		metric.WithDescription("Products added to the wishlist"))
	if err != nil {
		return nil, errors.Wrap(err, "wishlist counter")
	}
	cartAdds, err := meter.Int64Counter("storefront.cart.adds",
		metric.WithDescription("Units added to the cart"))
	if err != nil {
		return nil, errors.Wrap(err, "cart counter")
	}
	customOrders, err := meter.Int64Counter("storefront.custom_orders.submitted",
		metric.WithDescription("Custom order requests accepted"))
	if err != nil {
		return nil, errors.Wrap(err, "custom orders counter")
	}

	return &Metrics{
		wishlistAdds: wishlistAdds,
		cartAdds:     cartAdds,
		customOrders: customOrders,
	}, nil
}

func (m *Metrics) recordWishlistAdd(ctx context.Context) {
	if m == nil {
		return
	}
	m.wishlistAdds.Add(ctx, 1)
}

func (m *Metrics) recordCartAdd(ctx context.Context, quantity int, variant string) {
	if m == nil {
		return
	}
	m.cartAdds.Add(ctx, int64(quantity),
		metric.WithAttributes(attribute.Bool("has_variant", variant != "")))
}

func (m *Metrics) recordCustomOrder(ctx context.Context, hasImage bool) {
	if m == nil {
		return
	}
	m.customOrders.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("has_image", hasImage)))
}
