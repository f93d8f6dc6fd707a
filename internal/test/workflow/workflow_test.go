package workflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/workflow"
)

var (
	buyerID    = uuid.New()
	sellerID   = uuid.New()
	strangerID = uuid.New()
)

func testOrder(status string) *models.Order {
	return &models.Order{
		ID:             uuid.New(),
		BuyerID:        buyerID,
		ServiceOwnerID: sellerID,
		Status:         status,
	}
}

func version(n int, status string) models.OrderVersion {
	return models.OrderVersion{
		ID:            uuid.New(),
		VersionNumber: n,
		Status:        status,
	}
}

func deliveryInput() workflow.DeliveryInput {
	return workflow.DeliveryInput{
		PromptText:    "sunset over the bay, warm tones",
		CreatorNotes:  "First pass, two variants attached",
		ArtifactCount: 2,
	}
}

func TestRoleOf(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)

	role, err := workflow.RoleOf(order, buyerID)
	assert.NoError(t, err)
	assert.Equal(t, workflow.RoleBuyer, role)

	role, err = workflow.RoleOf(order, sellerID)
	assert.NoError(t, err)
	assert.Equal(t, workflow.RoleSeller, role)

	_, err = workflow.RoleOf(order, strangerID)
	assert.True(t, workflow.IsAuthorizationError(err))
}

func TestCurrentVersion_PicksHighestNumber(t *testing.T) {
	versions := []models.OrderVersion{
		version(2, models.VersionStatusRejected),
		version(1, models.VersionStatusRejected),
		version(3, models.VersionStatusPendingReview),
	}

	current, err := workflow.CurrentVersion(versions)
	require.NoError(t, err)
	assert.Equal(t, 3, current.VersionNumber)
}

func TestCurrentVersion_EmptyHistory(t *testing.T) {
	_, err := workflow.CurrentVersion(nil)
	assert.True(t, workflow.IsEmptyHistoryError(err))
}

func TestRemainingRevisions(t *testing.T) {
	assert.Equal(t, 3, workflow.RemainingRevisions(nil, 3))

	versions := []models.OrderVersion{
		version(1, models.VersionStatusRejected),
		version(2, models.VersionStatusRejected),
		version(3, models.VersionStatusPendingReview),
	}
	assert.Equal(t, 1, workflow.RemainingRevisions(versions, 3))

	// Never negative, even if history holds more rejections than the budget
	versions = []models.OrderVersion{
		version(1, models.VersionStatusRejected),
		version(2, models.VersionStatusRejected),
		version(3, models.VersionStatusRejected),
		version(4, models.VersionStatusRejected),
	}
	assert.Equal(t, 0, workflow.RemainingRevisions(versions, 3))
}

func TestNextVersionNumber(t *testing.T) {
	assert.Equal(t, 1, workflow.NextVersionNumber(nil))
	assert.Equal(t, 2, workflow.NextVersionNumber([]models.OrderVersion{version(1, models.VersionStatusRejected)}))
	assert.Equal(t, 4, workflow.NextVersionNumber([]models.OrderVersion{
		version(3, models.VersionStatusPendingReview),
		version(1, models.VersionStatusRejected),
	}))
}

func TestPlanDelivery_FirstVersion(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)

	plan, err := workflow.PlanDelivery(order, nil, sellerID, deliveryInput())
	require.NoError(t, err)
	assert.Equal(t, 1, plan.VersionNumber)
	assert.Equal(t, order.ID, plan.OrderID)
	assert.Equal(t, models.OrderStatusProcessing, plan.ExpectedOrderStatus)
	assert.Equal(t, "Delivered version V1, please review and accept.", plan.AuditMessage)
}

func TestPlanDelivery_NumbersAfterRejection(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)
	versions := []models.OrderVersion{version(1, models.VersionStatusRejected)}

	plan, err := workflow.PlanDelivery(order, versions, sellerID, deliveryInput())
	require.NoError(t, err)
	assert.Equal(t, 2, plan.VersionNumber)
	assert.Equal(t, "Delivered version V2, please review and accept.", plan.AuditMessage)
}

func TestPlanDelivery_BuyerCannotDeliver(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)

	_, err := workflow.PlanDelivery(order, nil, buyerID, deliveryInput())
	assert.True(t, workflow.IsAuthorizationError(err))
}

func TestPlanDelivery_ClosedOrder(t *testing.T) {
	for _, status := range []string{models.OrderStatusCompleted, models.OrderStatusCancelled} {
		order := testOrder(status)
		_, err := workflow.PlanDelivery(order, nil, sellerID, deliveryInput())
		assert.True(t, workflow.IsInvalidStateError(err), "status %s", status)
	}
}

func TestPlanDelivery_Validation(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)

	in := deliveryInput()
	in.ArtifactCount = 0
	_, err := workflow.PlanDelivery(order, nil, sellerID, in)
	verr, ok := workflow.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "files", verr.Field)

	in = deliveryInput()
	in.PromptText = "   "
	_, err = workflow.PlanDelivery(order, nil, sellerID, in)
	verr, ok = workflow.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "prompt_data", verr.Field)

	in = deliveryInput()
	in.CreatorNotes = ""
	_, err = workflow.PlanDelivery(order, nil, sellerID, in)
	verr, ok = workflow.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "creator_notes", verr.Field)
}

func TestPlanApproval(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	versions := []models.OrderVersion{version(1, models.VersionStatusPendingReview)}

	plan, err := workflow.PlanApproval(order, versions, buyerID)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.VersionNumber)
	assert.Equal(t, buyerID, plan.BuyerID)
	assert.Equal(t, "I have accepted the delivery, thank you!", plan.AuditMessage)
}

func TestPlanApproval_SellerCannotApprove(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	versions := []models.OrderVersion{version(1, models.VersionStatusPendingReview)}

	_, err := workflow.PlanApproval(order, versions, sellerID)
	assert.True(t, workflow.IsAuthorizationError(err))
}

func TestPlanApproval_NoVersions(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)

	_, err := workflow.PlanApproval(order, nil, buyerID)
	assert.True(t, workflow.IsEmptyHistoryError(err))
}

func TestPlanApproval_AlreadyDecided(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)
	versions := []models.OrderVersion{version(1, models.VersionStatusRejected)}

	_, err := workflow.PlanApproval(order, versions, buyerID)
	assert.True(t, workflow.IsInvalidStateError(err))
}

func TestPlanRevision(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	versions := []models.OrderVersion{version(1, models.VersionStatusPendingReview)}

	plan, err := workflow.PlanRevision(order, versions, buyerID, "needs warmer tones", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.VersionNumber)
	assert.Equal(t, "needs warmer tones", plan.Feedback)
	assert.Equal(t, "Requested changes: needs warmer tones", plan.AuditMessage)
}

func TestPlanRevision_RequiresFeedback(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	versions := []models.OrderVersion{version(1, models.VersionStatusPendingReview)}

	_, err := workflow.PlanRevision(order, versions, buyerID, "  ", 3)
	verr, ok := workflow.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "feedback", verr.Field)
}

func TestPlanRevision_SellerCannotRequest(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	versions := []models.OrderVersion{version(1, models.VersionStatusPendingReview)}

	_, err := workflow.PlanRevision(order, versions, sellerID, "feedback", 3)
	assert.True(t, workflow.IsAuthorizationError(err))
}

func TestPlanRevision_BudgetExhausted(t *testing.T) {
	order := testOrder(models.OrderStatusDelivered)
	// Three rejections spend the whole budget even though V4 awaits review
	versions := []models.OrderVersion{
		version(1, models.VersionStatusRejected),
		version(2, models.VersionStatusRejected),
		version(3, models.VersionStatusRejected),
		version(4, models.VersionStatusPendingReview),
	}

	_, err := workflow.PlanRevision(order, versions, buyerID, "one more change", 3)
	assert.True(t, workflow.IsRevisionBudgetError(err))
}

func TestPlanAcceptance(t *testing.T) {
	order := testOrder(models.OrderStatusPending)

	plan, err := workflow.PlanAcceptance(order, sellerID)
	require.NoError(t, err)
	assert.Equal(t, sellerID, plan.SellerID)

	_, err = workflow.PlanAcceptance(order, buyerID)
	assert.True(t, workflow.IsAuthorizationError(err))

	order.Status = models.OrderStatusProcessing
	_, err = workflow.PlanAcceptance(order, sellerID)
	assert.True(t, workflow.IsInvalidStateError(err))
}

func TestPlanCancellation(t *testing.T) {
	order := testOrder(models.OrderStatusPending)

	plan, err := workflow.PlanCancellation(order, buyerID)
	require.NoError(t, err)
	assert.Equal(t, workflow.RoleBuyer, plan.Role)
	assert.Equal(t, models.OrderStatusPending, plan.ExpectedOrderStatus)

	_, err = workflow.PlanCancellation(order, strangerID)
	assert.True(t, workflow.IsAuthorizationError(err))

	order.Status = models.OrderStatusCompleted
	_, err = workflow.PlanCancellation(order, sellerID)
	assert.True(t, workflow.IsInvalidStateError(err))
}

// Walks an order through a rejection, a redelivery and the final approval.
func TestFulfillmentLifecycle(t *testing.T) {
	order := testOrder(models.OrderStatusProcessing)
	var versions []models.OrderVersion

	// Seller delivers V1
	dp, err := workflow.PlanDelivery(order, versions, sellerID, deliveryInput())
	require.NoError(t, err)
	versions = append(versions, version(dp.VersionNumber, models.VersionStatusPendingReview))
	order.Status = models.OrderStatusDelivered

	// Buyer rejects it
	rp, err := workflow.PlanRevision(order, versions, buyerID, "needs warmer tones", 3)
	require.NoError(t, err)
	versions[rp.VersionNumber-1].Status = models.VersionStatusRejected
	order.Status = models.OrderStatusProcessing
	assert.Equal(t, 2, workflow.RemainingRevisions(versions, 3))

	// Seller delivers V2
	dp, err = workflow.PlanDelivery(order, versions, sellerID, deliveryInput())
	require.NoError(t, err)
	assert.Equal(t, 2, dp.VersionNumber)
	versions = append(versions, version(2, models.VersionStatusPendingReview))
	order.Status = models.OrderStatusDelivered

	// Buyer approves, order completes
	ap, err := workflow.PlanApproval(order, versions, buyerID)
	require.NoError(t, err)
	assert.Equal(t, 2, ap.VersionNumber)
	versions[1].Status = models.VersionStatusApproved
	order.Status = models.OrderStatusCompleted

	// Nothing moves a completed order
	_, err = workflow.PlanRevision(order, versions, buyerID, "never mind", 3)
	assert.True(t, workflow.IsInvalidStateError(err))
	_, err = workflow.PlanDelivery(order, versions, sellerID, deliveryInput())
	assert.True(t, workflow.IsInvalidStateError(err))
}
