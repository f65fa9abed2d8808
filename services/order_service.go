package services

import (
	"context"
	"fmt"
	"os"

	"food-ordering-api/apperrors"
	"food-ordering-api/cache"
	"food-ordering-api/events"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService owns order creation and the status lifecycle. It is
// stateless: all state lives behind the store.
type OrderService struct {
	store  store.Store
	cache  *cache.Cache
	events *events.Publisher
}

func NewOrderService(st store.Store, c *cache.Cache, ev *events.Publisher) *OrderService {
	return &OrderService{store: st, cache: c, events: ev}
}

type OrderLineInput struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderInput struct {
	RestaurantID uint             `json:"restaurant_id" binding:"required"`
	Items        []OrderLineInput `json:"items" binding:"required,min=1,dive"`
}

// Place creates an order in pending status with all line-item
// snapshots in one atomic unit. Name, price and subtotal are captured
// from the menu now and never touched again.
func (s *OrderService) Place(ctx context.Context, customerID uint, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", apperrors.ErrValidation)
	}
	for _, line := range in.Items {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", apperrors.ErrValidation)
		}
	}

	restaurant, err := s.store.GetRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen {
		return nil, fmt.Errorf("%w: restaurant is currently closed", apperrors.ErrValidation)
	}

	ids := make([]uint, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.MenuItemID)
	}
	menuItems, err := s.store.MenuItemsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.MenuItem, len(menuItems))
	for _, m := range menuItems {
		byID[m.ID] = m
	}

	var items []models.OrderItem
	var total float64
	for _, line := range in.Items {
		m, ok := byID[line.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: menu item %d", apperrors.ErrNotFound, line.MenuItemID)
		}
		if m.RestaurantID != in.RestaurantID {
			return nil, fmt.Errorf("%w: menu item %d does not belong to restaurant %d", apperrors.ErrValidation, m.ID, in.RestaurantID)
		}
		if !m.IsAvailable {
			return nil, fmt.Errorf("%w: menu item %q is not available", apperrors.ErrValidation, m.Name)
		}
		menuItemID := m.ID
		subtotal := m.Price * float64(line.Quantity)
		total += subtotal
		items = append(items, models.OrderItem{
			MenuItemID: &menuItemID,
			Quantity:   line.Quantity,
			UnitPrice:  m.Price,
			Name:       m.Name,
			Subtotal:   subtotal,
		})
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		RestaurantID: in.RestaurantID,
		Status:       models.StatusPending,
		Total:        total,
		Items:        items,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.cache.InvalidateOrders(ctx, customerID, in.RestaurantID)
	logger.Info().Str("order_id", order.ID).Uint("customer_id", customerID).
		Uint("restaurant_id", in.RestaurantID).Float64("total", total).Msg("order placed")
	return order, nil
}

// RequestTransition validates and applies one status change on behalf
// of an actor. The actor's role is resolved relative to the order:
// owner of the restaurant the order was placed at, or the customer who
// placed it. Anyone else is rejected outright.
func (s *OrderService) RequestTransition(ctx context.Context, orderID string, actorID uint, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, target)
	}

	order, restaurant, err := s.store.GetOrderWithRestaurant(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var role statemachine.Role
	switch {
	case restaurant.OwnerID == actorID:
		role = statemachine.RoleOwner
	case order.CustomerID == actorID:
		role = statemachine.RoleCustomer
	default:
		return nil, fmt.Errorf("%w: not your order", apperrors.ErrNotAllowed)
	}

	if err := statemachine.CanTransition(role, order.Status, target); err != nil {
		return nil, err
	}

	// Compare-and-set on the previous status: of two concurrent
	// transitions exactly one wins, the loser sees zero rows.
	affected, err := s.store.SetOrderStatus(ctx, orderID, order.Status, target)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order status changed, retry with current state", apperrors.ErrConflict)
	}

	s.cache.InvalidateOrders(ctx, order.CustomerID, order.RestaurantID)
	s.events.OrderStatusChanged(ctx, events.OrderStatusEvent{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerID:   order.CustomerID,
		From:         order.Status,
		To:           target,
		Actor:        string(role),
	})
	logger.Info().Str("order_id", orderID).Str("role", string(role)).
		Str("from", string(order.Status)).Str("to", string(target)).Msg("order status updated")

	order.Status = target
	return order, nil
}

// GetForCustomer returns an order only to the customer who placed it.
func (s *OrderService) GetForCustomer(ctx context.Context, orderID string, customerID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("%w: not your order", apperrors.ErrNotAllowed)
	}
	return order, nil
}

// CustomerOrders lists a customer's orders, newest first, through the
// listing cache.
func (s *OrderService) CustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	key := cache.CustomerOrdersKey(customerID)
	if orders, ok := s.cache.GetOrders(ctx, key); ok {
		return orders, nil
	}
	orders, err := s.store.ListCustomerOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.cache.SetOrders(ctx, key, orders)
	return orders, nil
}

// RestaurantOrders lists a restaurant's orders. Only the unfiltered
// listing is cached; status-filtered views hit the store.
func (s *OrderService) RestaurantOrders(ctx context.Context, restaurantID uint, status models.OrderStatus) ([]models.Order, error) {
	if status != "" {
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
		}
		return s.store.ListRestaurantOrders(ctx, restaurantID, status)
	}
	key := cache.RestaurantOrdersKey(restaurantID)
	if orders, ok := s.cache.GetOrders(ctx, key); ok {
		return orders, nil
	}
	orders, err := s.store.ListRestaurantOrders(ctx, restaurantID, "")
	if err != nil {
		return nil, err
	}
	s.cache.SetOrders(ctx, key, orders)
	return orders, nil
}
