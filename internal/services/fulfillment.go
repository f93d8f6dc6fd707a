package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ai-hub-backend/internal/metrics"
	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/supabase"
	"ai-hub-backend/internal/workflow"
)

// FulfillmentService runs the order fulfillment workflow: it loads current
// state, asks the workflow package for a plan, and has the database client
// apply the plan atomically. Artifact upload and realtime payloads hang off
// the same transitions.
type FulfillmentService struct {
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
	maxRevisions   int
	log            *zap.Logger
}

func NewFulfillmentService(
	dbClient *supabase.DatabaseClient,
	storageClient *supabase.StorageClient,
	realtimeClient *supabase.RealtimeClient,
	maxRevisions int,
	log *zap.Logger,
) *FulfillmentService {
	if maxRevisions < 1 {
		maxRevisions = workflow.DefaultMaxRevisions
	}
	return &FulfillmentService{
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
		maxRevisions:   maxRevisions,
		log:            log,
	}
}

func (s *FulfillmentService) MaxRevisions() int {
	return s.maxRevisions
}

type DeliverableFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// OrderView is the participant-facing read model: the order, its version
// history, the caller's derived role and the remaining revision budget.
type OrderView struct {
	Order              *models.Order
	Versions           []models.OrderVersion
	Role               workflow.Role
	RemainingRevisions int
	MaxRevisions       int
}

func (s *FulfillmentService) GetOrderView(orderID, callerID uuid.UUID) (*OrderView, error) {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return nil, err
	}
	role, err := workflow.RoleOf(order, callerID)
	if err != nil {
		return nil, err
	}
	versions, err := s.dbClient.ListOrderVersions(orderID)
	if err != nil {
		return nil, err
	}

	return &OrderView{
		Order:              order,
		Versions:           versions,
		Role:               role,
		RemainingRevisions: workflow.RemainingRevisions(versions, s.maxRevisions),
		MaxRevisions:       s.maxRevisions,
	}, nil
}

// SubmitDelivery creates the next deliverable version on behalf of the
// seller. Artifacts are uploaded first; the version insert, order status
// change and audit message land in one transaction.
func (s *FulfillmentService) SubmitDelivery(orderID, callerID uuid.UUID, files []DeliverableFile, promptText, notes string) (*models.OrderVersion, error) {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return nil, err
	}
	versions, err := s.dbClient.ListOrderVersions(orderID)
	if err != nil {
		return nil, err
	}

	plan, err := workflow.PlanDelivery(order, versions, callerID, workflow.DeliveryInput{
		PromptText:    promptText,
		CreatorNotes:  notes,
		ArtifactCount: len(files),
	})
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("submit_delivery").Inc()
		return nil, err
	}

	var contentURL string
	uploadedPaths := make([]string, 0, len(files))
	for _, f := range files {
		path, url, err := s.storageClient.UploadDeliverable(callerID, orderID, plan.VersionNumber, f.Filename, f.ContentType, f.Data)
		if err != nil {
			s.cleanupUploads(uploadedPaths)
			metrics.OperationErrorsTotal.WithLabelValues("submit_delivery").Inc()
			return nil, fmt.Errorf("failed to upload artifact %s: %w", f.Filename, err)
		}
		uploadedPaths = append(uploadedPaths, path)
		if contentURL == "" {
			contentURL = url
		}
	}

	promptData, _ := json.Marshal(map[string]string{"raw": plan.PromptText})

	version, err := s.dbClient.ApplyDelivery(plan, contentURL, promptData)
	if err != nil {
		s.cleanupUploads(uploadedPaths)
		metrics.OperationErrorsTotal.WithLabelValues("submit_delivery").Inc()
		return nil, err
	}

	metrics.DeliveriesSubmittedTotal.Inc()
	s.log.Info("delivery submitted",
		zap.String("order_id", orderID.String()),
		zap.Int("version_number", version.VersionNumber),
	)
	_ = s.realtimeClient.PublishOrderEvent(orderID, "delivery_submitted",
		supabase.DeliverySubmittedPayload(orderID, version.VersionNumber, contentURL))

	return version, nil
}

// ApproveCurrentVersion completes the order on behalf of the buyer.
func (s *FulfillmentService) ApproveCurrentVersion(orderID, callerID uuid.UUID) error {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return err
	}
	versions, err := s.dbClient.ListOrderVersions(orderID)
	if err != nil {
		return err
	}

	plan, err := workflow.PlanApproval(order, versions, callerID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("approve_version").Inc()
		return err
	}

	if err := s.dbClient.ApplyApproval(plan); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("approve_version").Inc()
		return err
	}

	metrics.OrdersCompletedTotal.Inc()
	s.log.Info("order completed",
		zap.String("order_id", orderID.String()),
		zap.Int("version_number", plan.VersionNumber),
	)
	_ = s.realtimeClient.PublishOrderEvent(orderID, "version_approved",
		supabase.VersionApprovedPayload(orderID, plan.VersionNumber))

	return nil
}

// RequestRevision rejects the current version with the buyer's feedback and
// returns the remaining revision budget after the rejection.
func (s *FulfillmentService) RequestRevision(orderID, callerID uuid.UUID, feedback string) (int, error) {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return 0, err
	}
	versions, err := s.dbClient.ListOrderVersions(orderID)
	if err != nil {
		return 0, err
	}

	plan, err := workflow.PlanRevision(order, versions, callerID, feedback, s.maxRevisions)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("request_revision").Inc()
		return 0, err
	}

	if err := s.dbClient.ApplyRevision(plan); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("request_revision").Inc()
		return 0, err
	}

	remaining := workflow.RemainingRevisions(versions, s.maxRevisions) - 1
	if remaining < 0 {
		remaining = 0
	}

	metrics.RevisionsRequestedTotal.Inc()
	s.log.Info("revision requested",
		zap.String("order_id", orderID.String()),
		zap.Int("version_number", plan.VersionNumber),
		zap.Int("remaining_revisions", remaining),
	)
	_ = s.realtimeClient.PublishOrderEvent(orderID, "revision_requested",
		supabase.RevisionRequestedPayload(orderID, plan.VersionNumber, remaining))

	return remaining, nil
}

// AcceptOrder moves a pending order into processing on behalf of the seller.
func (s *FulfillmentService) AcceptOrder(orderID, callerID uuid.UUID) error {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return err
	}

	plan, err := workflow.PlanAcceptance(order, callerID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("accept_order").Inc()
		return err
	}

	if err := s.dbClient.ApplyAcceptance(plan); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("accept_order").Inc()
		return err
	}

	s.log.Info("order accepted", zap.String("order_id", orderID.String()))
	_ = s.realtimeClient.PublishOrderEvent(orderID, "order_accepted",
		supabase.OrderAcceptedPayload(orderID))

	return nil
}

// CancelOrder closes a not-yet-terminal order for either party.
func (s *FulfillmentService) CancelOrder(orderID, callerID uuid.UUID) error {
	order, err := s.dbClient.GetOrderForUser(orderID, callerID)
	if err != nil {
		return err
	}

	plan, err := workflow.PlanCancellation(order, callerID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("cancel_order").Inc()
		return err
	}

	if err := s.dbClient.ApplyCancellation(plan); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("cancel_order").Inc()
		return err
	}

	metrics.OrdersCancelledTotal.Inc()
	s.log.Info("order cancelled",
		zap.String("order_id", orderID.String()),
		zap.String("by", string(plan.Role)),
	)
	_ = s.realtimeClient.PublishOrderEvent(orderID, "order_cancelled",
		supabase.OrderCancelledPayload(orderID))

	return nil
}

// cleanupUploads removes artifacts that were uploaded before a delivery
// failed to apply. Best-effort; an orphaned file only wastes bucket space.
func (s *FulfillmentService) cleanupUploads(paths []string) {
	for _, p := range paths {
		if err := s.storageClient.DeleteFile(p); err != nil {
			s.log.Warn("failed to clean up uploaded artifact", zap.String("path", p), zap.Error(err))
		}
	}
}
