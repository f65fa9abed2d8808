package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"food-ordering-api/apperrors"
	"food-ordering-api/models"
)

// APIStore implements Store by proxying every call to an external REST
// backend that exposes the same contract. Every method, including the
// atomic composites (order-with-items, review-with-aggregate), is
// exactly one HTTP round trip: the remote side wraps each request in
// its own transaction, so a failed request leaves nothing applied.
type APIStore struct {
	baseURL string
	client  *http.Client
}

func NewAPIStore(baseURL string) *APIStore {
	return &APIStore{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *APIStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, method, path)
	case resp.StatusCode == http.StatusForbidden:
		return apperrors.ErrNotAllowed
	case resp.StatusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case resp.StatusCode == http.StatusBadRequest:
		return apperrors.ErrValidation
	case resp.StatusCode >= 300:
		return fmt.Errorf("backend returned %s for %s %s", resp.Status, method, path)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (s *APIStore) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.do(ctx, http.MethodGet, fmt.Sprintf("/restaurants/%d/", id), nil, &restaurant); err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (s *APIStore) MenuItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("id", fmt.Sprint(id))
	}
	var items []models.MenuItem
	if err := s.do(ctx, http.MethodGet, "/menu-items/?"+q.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *APIStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.do(ctx, http.MethodGet, "/orders/"+id+"/", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *APIStore) GetOrderWithRestaurant(ctx context.Context, id string) (*models.Order, *models.Restaurant, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	restaurant, err := s.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, nil, err
	}
	return order, restaurant, nil
}

func (s *APIStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.do(ctx, http.MethodPost, "/orders/", order, order)
}

func (s *APIStore) SetOrderStatus(ctx context.Context, id string, from, to models.OrderStatus) (int64, error) {
	var result struct {
		Updated int64 `json:"updated"`
	}
	body := map[string]models.OrderStatus{"from": from, "to": to}
	if err := s.do(ctx, http.MethodPatch, "/orders/"+id+"/status/", body, &result); err != nil {
		return 0, err
	}
	return result.Updated, nil
}

func (s *APIStore) ListCustomerOrders(ctx context.Context, customerID uint) ([]models.Order, error) {
	var orders []models.Order
	path := fmt.Sprintf("/orders/?customer=%d&ordering=-created_at", customerID)
	if err := s.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *APIStore) ListRestaurantOrders(ctx context.Context, restaurantID uint, status models.OrderStatus) ([]models.Order, error) {
	path := fmt.Sprintf("/orders/?restaurant=%d&ordering=-created_at", restaurantID)
	if status != "" {
		path += "&status=" + url.QueryEscape(string(status))
	}
	var orders []models.Order
	if err := s.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *APIStore) HasOrderInStatus(ctx context.Context, customerID, restaurantID uint, statuses []models.OrderStatus) (bool, error) {
	q := url.Values{}
	q.Set("customer", fmt.Sprint(customerID))
	q.Set("restaurant", fmt.Sprint(restaurantID))
	for _, status := range statuses {
		q.Add("status", string(status))
	}
	var result struct {
		Count int64 `json:"count"`
	}
	if err := s.do(ctx, http.MethodGet, "/orders/count/?"+q.Encode(), nil, &result); err != nil {
		return false, err
	}
	return result.Count > 0, nil
}

func (s *APIStore) GetReview(ctx context.Context, customerID, restaurantID uint) (*models.Review, error) {
	var review models.Review
	path := fmt.Sprintf("/reviews/lookup/?customer=%d&restaurant=%d", customerID, restaurantID)
	if err := s.do(ctx, http.MethodGet, path, nil, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *APIStore) ListReviews(ctx context.Context, restaurantID uint) ([]models.Review, error) {
	var reviews []models.Review
	path := fmt.Sprintf("/reviews/?restaurant=%d&ordering=-created_at", restaurantID)
	if err := s.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview is a single POST; the backend inserts the review and
// recomputes the restaurant aggregate inside its own transaction.
func (s *APIStore) CreateReview(ctx context.Context, review *models.Review) error {
	return s.do(ctx, http.MethodPost, "/reviews/", review, review)
}

// SaveReview is a single PUT; the backend recomputes the aggregate
// with the update.
func (s *APIStore) SaveReview(ctx context.Context, review *models.Review) error {
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/reviews/%d/", review.ID), review, review)
}

// DeleteReview is a single DELETE; the backend recomputes the
// aggregate with the removal.
func (s *APIStore) DeleteReview(ctx context.Context, review *models.Review) error {
	return s.do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d/", review.ID), nil, nil)
}

func (s *APIStore) ReviewAggregate(ctx context.Context, restaurantID uint) (int64, int64, error) {
	var result struct {
		Count int64 `json:"count"`
		Sum   int64 `json:"sum"`
	}
	path := fmt.Sprintf("/reviews/aggregate/?restaurant=%d", restaurantID)
	if err := s.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, 0, err
	}
	return result.Count, result.Sum, nil
}
