// Package workflow holds the order fulfillment rules: who may act on an
// order in which state, how deliverable versions are numbered, and how many
// revisions the buyer may request. Every function is pure; the decisions it
// produces are applied atomically by the database client.
package workflow

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-hub-backend/internal/models"
)

// DefaultMaxRevisions is the number of times a buyer may reject a delivery
// before they have to accept or take the order outside the platform.
const DefaultMaxRevisions = 3

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// RoleOf derives the caller's role from the order's two parties. The role is
// never stored; it always comes from this comparison.
func RoleOf(order *models.Order, callerID uuid.UUID) (Role, error) {
	switch callerID {
	case order.BuyerID:
		return RoleBuyer, nil
	case order.ServiceOwnerID:
		return RoleSeller, nil
	}
	return "", NewAuthorizationError("caller is not a party to this order")
}

func IsTerminal(status string) bool {
	return status == models.OrderStatusCompleted || status == models.OrderStatusCancelled
}

// CurrentVersion returns the version with the highest version_number. Past
// versions are immutable history; only the current one may transition.
func CurrentVersion(versions []models.OrderVersion) (*models.OrderVersion, error) {
	if len(versions) == 0 {
		return nil, &EmptyHistoryError{}
	}
	current := &versions[0]
	for i := range versions[1:] {
		if versions[i+1].VersionNumber > current.VersionNumber {
			current = &versions[i+1]
		}
	}
	return current, nil
}

// RemainingRevisions is maxRevisions minus the number of rejected versions,
// floored at zero.
func RemainingRevisions(versions []models.OrderVersion, maxRevisions int) int {
	remaining := maxRevisions
	for i := range versions {
		if versions[i].Status == models.VersionStatusRejected {
			remaining--
		}
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextVersionNumber is max(existing)+1, starting at 1. Numbering is assigned
// here, never by clients.
func NextVersionNumber(versions []models.OrderVersion) int {
	next := 1
	for i := range versions {
		if versions[i].VersionNumber >= next {
			next = versions[i].VersionNumber + 1
		}
	}
	return next
}

type DeliveryInput struct {
	PromptText    string
	CreatorNotes  string
	ArtifactCount int
}

// DeliveryPlan describes a new deliverable version. ExpectedOrderStatus is
// the order status the store must still observe when it applies the plan.
type DeliveryPlan struct {
	OrderID             uuid.UUID
	SellerID            uuid.UUID
	VersionNumber       int
	PromptText          string
	CreatorNotes        string
	ExpectedOrderStatus string
	AuditMessage        string
}

// PlanDelivery validates a seller delivery and assigns the next version
// number. The new version starts in pending_review and moves the order to
// delivered.
func PlanDelivery(order *models.Order, versions []models.OrderVersion, callerID uuid.UUID, in DeliveryInput) (*DeliveryPlan, error) {
	role, err := RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	if role != RoleSeller {
		return nil, NewAuthorizationError("only the seller can submit a delivery")
	}
	if IsTerminal(order.Status) {
		return nil, NewInvalidStateError(order.Status, "order is closed")
	}
	if in.ArtifactCount < 1 {
		return nil, NewValidationError("files", "at least one artifact is required")
	}
	prompt := strings.TrimSpace(in.PromptText)
	if prompt == "" {
		return nil, NewValidationError("prompt_data", "prompt text is required")
	}
	notes := strings.TrimSpace(in.CreatorNotes)
	if notes == "" {
		return nil, NewValidationError("creator_notes", "creator notes are required")
	}

	n := NextVersionNumber(versions)
	return &DeliveryPlan{
		OrderID:             order.ID,
		SellerID:            callerID,
		VersionNumber:       n,
		PromptText:          prompt,
		CreatorNotes:        notes,
		ExpectedOrderStatus: order.Status,
		AuditMessage:        fmt.Sprintf("Delivered version V%d, please review and accept.", n),
	}, nil
}

type ApprovalPlan struct {
	OrderID       uuid.UUID
	BuyerID       uuid.UUID
	VersionNumber int
	AuditMessage  string
}

// PlanApproval validates a buyer approval of the current version. The
// version becomes approved and the order completes.
func PlanApproval(order *models.Order, versions []models.OrderVersion, callerID uuid.UUID) (*ApprovalPlan, error) {
	role, err := RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	if role != RoleBuyer {
		return nil, NewAuthorizationError("only the buyer can approve a delivery")
	}
	if IsTerminal(order.Status) {
		return nil, NewInvalidStateError(order.Status, "order is closed")
	}
	current, err := CurrentVersion(versions)
	if err != nil {
		return nil, err
	}
	if current.Status != models.VersionStatusPendingReview {
		return nil, NewInvalidStateError(current.Status, "current version is not awaiting review")
	}

	return &ApprovalPlan{
		OrderID:       order.ID,
		BuyerID:       callerID,
		VersionNumber: current.VersionNumber,
		AuditMessage:  "I have accepted the delivery, thank you!",
	}, nil
}

type RevisionPlan struct {
	OrderID       uuid.UUID
	BuyerID       uuid.UUID
	VersionNumber int
	Feedback      string
	AuditMessage  string
}

// PlanRevision validates a buyer revision request against the revision
// budget. The current version becomes rejected with the buyer's feedback
// and the order returns to processing.
func PlanRevision(order *models.Order, versions []models.OrderVersion, callerID uuid.UUID, feedback string, maxRevisions int) (*RevisionPlan, error) {
	role, err := RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	if role != RoleBuyer {
		return nil, NewAuthorizationError("only the buyer can request a revision")
	}
	fb := strings.TrimSpace(feedback)
	if fb == "" {
		return nil, NewValidationError("feedback", "feedback is required")
	}
	if IsTerminal(order.Status) {
		return nil, NewInvalidStateError(order.Status, "order is closed")
	}
	current, err := CurrentVersion(versions)
	if err != nil {
		return nil, err
	}
	if RemainingRevisions(versions, maxRevisions) == 0 {
		return nil, &RevisionBudgetError{Max: maxRevisions}
	}
	if current.Status != models.VersionStatusPendingReview {
		return nil, NewInvalidStateError(current.Status, "current version is not awaiting review")
	}

	return &RevisionPlan{
		OrderID:       order.ID,
		BuyerID:       callerID,
		VersionNumber: current.VersionNumber,
		Feedback:      fb,
		AuditMessage:  fmt.Sprintf("Requested changes: %s", fb),
	}, nil
}

type AcceptancePlan struct {
	OrderID      uuid.UUID
	SellerID     uuid.UUID
	AuditMessage string
}

// PlanAcceptance validates the seller taking a pending order into work.
func PlanAcceptance(order *models.Order, callerID uuid.UUID) (*AcceptancePlan, error) {
	role, err := RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	if role != RoleSeller {
		return nil, NewAuthorizationError("only the seller can accept an order")
	}
	if order.Status != models.OrderStatusPending {
		return nil, NewInvalidStateError(order.Status, "order is not awaiting acceptance")
	}

	return &AcceptancePlan{
		OrderID:      order.ID,
		SellerID:     callerID,
		AuditMessage: "Order accepted, work is underway.",
	}, nil
}

type CancellationPlan struct {
	OrderID             uuid.UUID
	ActorID             uuid.UUID
	Role                Role
	ExpectedOrderStatus string
	AuditMessage        string
}

// PlanCancellation validates either party closing a not-yet-terminal order.
func PlanCancellation(order *models.Order, callerID uuid.UUID) (*CancellationPlan, error) {
	role, err := RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	if IsTerminal(order.Status) {
		return nil, NewInvalidStateError(order.Status, "order is already closed")
	}

	return &CancellationPlan{
		OrderID:             order.ID,
		ActorID:             callerID,
		Role:                role,
		ExpectedOrderStatus: order.Status,
		AuditMessage:        "Order cancelled.",
	}, nil
}
