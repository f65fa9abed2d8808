package statemachine

import (
	"fmt"

	"food-ordering-api/models"
)

// Role is an actor's relationship to a specific order: the customer
// who placed it, or the owner of the restaurant it was placed at.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role Role
}

// validTransitions is the authoritative state machine definition.
// Owners drive fulfilment forward; customers may only abort before
// fulfilment begins.
var validTransitions = []Transition{
	// Owner confirms or cancels a pending order
	{From: models.StatusPending, To: models.StatusConfirmed, Role: RoleOwner},
	{From: models.StatusPending, To: models.StatusCancelled, Role: RoleOwner},
	// Customer can only cancel while still pending
	{From: models.StatusPending, To: models.StatusCancelled, Role: RoleCustomer},
	// Owner moves a confirmed order into preparation, or cancels it
	{From: models.StatusConfirmed, To: models.StatusPreparing, Role: RoleOwner},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Role: RoleOwner},
	// Owner completes or cancels a preparing order
	{From: models.StatusPreparing, To: models.StatusCompleted, Role: RoleOwner},
	{From: models.StatusPreparing, To: models.StatusCancelled, Role: RoleOwner},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From models.OrderStatus
	To   models.OrderStatus
	Role Role
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Role}] = true
	}
	return m
}()

// InvalidTransitionError reports a status change that is not permitted
// from the current status for the acting role. It carries the
// attempted (role, from, to) triple for diagnostics.
type InvalidTransitionError struct {
	Role Role
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	if IsTerminal(e.From) {
		return fmt.Sprintf("invalid transition: order is already %s (terminal state)", e.From)
	}
	return fmt.Sprintf("invalid transition: %s may not move %s → %s; valid next states: %s",
		e.Role, e.From, e.To, describeValidFrom(e.Role, e.From))
}

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states for a role from a given state
func ValidTransitionsFrom(role Role, status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Role == role {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if a given role can move an order from one
// state to another. Terminal states reject every target regardless of
// role.
func CanTransition(role Role, from, to models.OrderStatus) error {
	if transitionMap[transitionKey{From: from, To: to, Role: role}] {
		return nil
	}
	return &InvalidTransitionError{Role: role, From: from, To: to}
}

func describeValidFrom(role Role, status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(role, status)
	if len(nexts) == 0 {
		return "none"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// AllTransitions returns the full state machine for documentation
func AllTransitions() []Transition {
	return validTransitions
}
