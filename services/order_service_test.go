package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"food-ordering-api/apperrors"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"
)

func TestPlaceOrderSnapshotsItems(t *testing.T) {
	db, st, restaurant, menu := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	order, err := svc.Place(ctx, customerID, PlaceOrderInput{
		RestaurantID: restaurant.ID,
		Items: []OrderLineInput{
			{MenuItemID: menu[0].ID, Quantity: 2},
			{MenuItemID: menu[1].ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.Status != models.StatusPending {
		t.Errorf("new order status = %s, want pending", order.Status)
	}
	wantTotal := 2*9.50 + 4.25
	if math.Abs(order.Total-wantTotal) > 1e-9 {
		t.Errorf("total = %v, want %v", order.Total, wantTotal)
	}

	// Raise the menu price; the persisted snapshot must not move.
	if err := db.Model(&models.MenuItem{}).Where("id = ?", menu[0].ID).Update("price", 12.00).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}
	reloaded, err := st.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(reloaded.Items))
	}
	for _, item := range reloaded.Items {
		if item.Name == "Margherita" && item.UnitPrice != 9.50 {
			t.Errorf("snapshot price moved to %v", item.UnitPrice)
		}
		if math.Abs(item.Subtotal-item.UnitPrice*float64(item.Quantity)) > 1e-9 {
			t.Errorf("subtotal %v != quantity %d × price %v", item.Subtotal, item.Quantity, item.UnitPrice)
		}
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	_, st, restaurant, menu := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	if _, err := svc.Place(ctx, customerID, PlaceOrderInput{RestaurantID: restaurant.ID}); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("empty items: want ErrValidation, got %v", err)
	}
	_, err := svc.Place(ctx, customerID, PlaceOrderInput{
		RestaurantID: restaurant.ID,
		Items:        []OrderLineInput{{MenuItemID: menu[0].ID, Quantity: 0}},
	})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("zero quantity: want ErrValidation, got %v", err)
	}
	_, err = svc.Place(ctx, customerID, PlaceOrderInput{
		RestaurantID: 999,
		Items:        []OrderLineInput{{MenuItemID: menu[0].ID, Quantity: 1}},
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing restaurant: want ErrNotFound, got %v", err)
	}
	_, err = svc.Place(ctx, customerID, PlaceOrderInput{
		RestaurantID: restaurant.ID,
		Items:        []OrderLineInput{{MenuItemID: 999, Quantity: 1}},
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing menu item: want ErrNotFound, got %v", err)
	}
}

func TestRequestTransitionLifecycle(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)

	// Owner drives the full happy path.
	for _, next := range []models.OrderStatus{models.StatusConfirmed, models.StatusPreparing, models.StatusCompleted} {
		updated, err := svc.RequestTransition(ctx, order.ID, ownerID, next)
		if err != nil {
			t.Fatalf("owner → %s: %v", next, err)
		}
		if updated.Status != next {
			t.Errorf("returned status = %s, want %s", updated.Status, next)
		}
		persisted, err := st.GetOrder(ctx, order.ID)
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
		if persisted.Status != next {
			t.Errorf("persisted status = %s, want %s", persisted.Status, next)
		}
	}

	// Completed is terminal for everyone.
	var invalid *statemachine.InvalidTransitionError
	for _, actor := range []uint{ownerID, customerID} {
		for _, target := range models.AllStatuses {
			_, err := svc.RequestTransition(ctx, order.ID, actor, target)
			if !errors.As(err, &invalid) {
				t.Errorf("actor %d → %s on completed order: want InvalidTransitionError, got %v", actor, target, err)
			}
		}
	}
}

func TestRequestTransitionCustomerCancel(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	// Customer may cancel while pending.
	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)
	if _, err := svc.RequestTransition(ctx, order.ID, customerID, models.StatusCancelled); err != nil {
		t.Fatalf("customer cancel pending: %v", err)
	}

	// Once the owner has confirmed, the customer is locked out.
	order = seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)
	if _, err := svc.RequestTransition(ctx, order.ID, ownerID, models.StatusConfirmed); err != nil {
		t.Fatalf("owner confirm: %v", err)
	}
	_, err := svc.RequestTransition(ctx, order.ID, customerID, models.StatusCancelled)
	var invalid *statemachine.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("customer cancel confirmed: want InvalidTransitionError, got %v", err)
	}
	if invalid.Role != statemachine.RoleCustomer || invalid.From != models.StatusConfirmed || invalid.To != models.StatusCancelled {
		t.Errorf("triple mismatch: %+v", invalid)
	}
}

func TestRequestTransitionAuthorization(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)

	for _, target := range models.AllStatuses {
		if _, err := svc.RequestTransition(ctx, order.ID, strangerID, target); !errors.Is(err, apperrors.ErrNotAllowed) {
			t.Errorf("stranger → %s: want ErrNotAllowed, got %v", target, err)
		}
	}

	if _, err := svc.RequestTransition(ctx, "missing-order", ownerID, models.StatusConfirmed); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("missing order: want ErrNotFound, got %v", err)
	}
	if _, err := svc.RequestTransition(ctx, order.ID, ownerID, "shipped"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("unknown status: want ErrValidation, got %v", err)
	}
}

func TestSetOrderStatusGuard(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	ctx := context.Background()

	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)

	// First writer wins the compare-and-set.
	affected, err := st.SetOrderStatus(ctx, order.ID, models.StatusPending, models.StatusConfirmed)
	if err != nil || affected != 1 {
		t.Fatalf("first CAS: affected=%d err=%v", affected, err)
	}
	// Second writer still expects pending and must lose.
	affected, err = st.SetOrderStatus(ctx, order.ID, models.StatusPending, models.StatusCancelled)
	if err != nil {
		t.Fatalf("second CAS: %v", err)
	}
	if affected != 0 {
		t.Errorf("second CAS affected %d rows, want 0", affected)
	}
}

// staleStore simulates a transition race: the table check passes but
// the guarded write reports that the expected previous status is gone.
type staleStore struct {
	store.Store
}

func (s *staleStore) SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (int64, error) {
	return 0, nil
}

func TestRequestTransitionConflict(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(&staleStore{Store: st}, nil, nil)
	ctx := context.Background()

	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)
	_, err := svc.RequestTransition(ctx, order.ID, ownerID, models.StatusConfirmed)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("lost race: want ErrConflict, got %v", err)
	}
}

func TestOrderListings(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)
	seedOrder(t, db, customerID, restaurant.ID, models.StatusCompleted)
	seedOrder(t, db, strangerID, restaurant.ID, models.StatusPending)

	mine, err := svc.CustomerOrders(ctx, customerID)
	if err != nil {
		t.Fatalf("customer orders: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("customer orders = %d, want 2", len(mine))
	}

	all, err := svc.RestaurantOrders(ctx, restaurant.ID, "")
	if err != nil {
		t.Fatalf("restaurant orders: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("restaurant orders = %d, want 3", len(all))
	}

	completed, err := svc.RestaurantOrders(ctx, restaurant.ID, models.StatusCompleted)
	if err != nil {
		t.Fatalf("filtered orders: %v", err)
	}
	if len(completed) != 1 {
		t.Errorf("completed orders = %d, want 1", len(completed))
	}

	if _, err := svc.RestaurantOrders(ctx, restaurant.ID, "shipped"); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("bad filter: want ErrValidation, got %v", err)
	}
}

func TestGetForCustomer(t *testing.T) {
	db, st, restaurant, _ := newTestStore(t)
	svc := NewOrderService(st, nil, nil)
	ctx := context.Background()

	order := seedOrder(t, db, customerID, restaurant.ID, models.StatusPending)

	if _, err := svc.GetForCustomer(ctx, order.ID, customerID); err != nil {
		t.Fatalf("own order: %v", err)
	}
	if _, err := svc.GetForCustomer(ctx, order.ID, strangerID); !errors.Is(err, apperrors.ErrNotAllowed) {
		t.Errorf("foreign order: want ErrNotAllowed, got %v", err)
	}
}
