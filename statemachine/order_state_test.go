package statemachine

import (
	"errors"
	"testing"

	"food-ordering-api/models"
)

// allowed mirrors the documented lifecycle table.
var allowed = map[Role]map[models.OrderStatus][]models.OrderStatus{
	RoleOwner: {
		models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
		models.StatusConfirmed: {models.StatusPreparing, models.StatusCancelled},
		models.StatusPreparing: {models.StatusCompleted, models.StatusCancelled},
	},
	RoleCustomer: {
		models.StatusPending: {models.StatusCancelled},
	},
}

func isAllowed(role Role, from, to models.OrderStatus) bool {
	for _, next := range allowed[role][from] {
		if next == to {
			return true
		}
	}
	return false
}

func TestCanTransitionMatchesTable(t *testing.T) {
	for _, role := range []Role{RoleOwner, RoleCustomer} {
		for _, from := range models.AllStatuses {
			for _, to := range models.AllStatuses {
				err := CanTransition(role, from, to)
				want := isAllowed(role, from, to)
				if want && err != nil {
					t.Errorf("%s %s→%s: expected allowed, got %v", role, from, to, err)
				}
				if !want && err == nil {
					t.Errorf("%s %s→%s: expected rejection", role, from, to)
				}
			}
		}
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusCompleted, models.StatusCancelled} {
		if !IsTerminal(from) {
			t.Fatalf("%s should be terminal", from)
		}
		for _, role := range []Role{RoleOwner, RoleCustomer} {
			for _, to := range models.AllStatuses {
				if err := CanTransition(role, from, to); err == nil {
					t.Errorf("%s %s→%s: terminal state must reject", role, from, to)
				}
			}
		}
	}
	for _, from := range []models.OrderStatus{models.StatusPending, models.StatusConfirmed, models.StatusPreparing} {
		if IsTerminal(from) {
			t.Errorf("%s should not be terminal", from)
		}
	}
}

func TestInvalidTransitionErrorCarriesTriple(t *testing.T) {
	err := CanTransition(RoleCustomer, models.StatusConfirmed, models.StatusCancelled)
	var invalid *InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if invalid.Role != RoleCustomer || invalid.From != models.StatusConfirmed || invalid.To != models.StatusCancelled {
		t.Errorf("triple mismatch: %+v", invalid)
	}
	if invalid.Error() == "" {
		t.Error("error message should not be empty")
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	got := ValidTransitionsFrom(RoleOwner, models.StatusPending)
	if len(got) != 2 {
		t.Fatalf("owner from pending: got %v", got)
	}
	if got := ValidTransitionsFrom(RoleCustomer, models.StatusPreparing); len(got) != 0 {
		t.Errorf("customer from preparing: got %v", got)
	}
	if got := ValidTransitionsFrom(RoleOwner, models.StatusCompleted); len(got) != 0 {
		t.Errorf("owner from completed: got %v", got)
	}
}
