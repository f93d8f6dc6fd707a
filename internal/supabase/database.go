package supabase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ai-hub-backend/internal/models"
	"ai-hub-backend/internal/workflow"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}

// ---- services ----

func (d *DatabaseClient) CreateService(creatorID uuid.UUID, title string, price float64, description string, tags []string, coverURL string) (*models.Service, error) {
	var svc models.Service
	var scannedTags pq.StringArray
	err := d.db.QueryRow(`
		INSERT INTO services (creator_id, title, price, description, tags, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, creator_id, title, price, description, tags, cover_url, created_at
	`, creatorID, title, price, description, pq.Array(tags), coverURL).Scan(
		&svc.ID, &svc.CreatorID, &svc.Title, &svc.Price,
		&svc.Description, &scannedTags, &svc.CoverURL, &svc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	svc.Tags = scannedTags

	return &svc, nil
}

func (d *DatabaseClient) ListServices() ([]models.Service, error) {
	rows, err := d.db.Query(`
		SELECT id, creator_id, title, price, description, tags, cover_url, created_at
		FROM services
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		var tags pq.StringArray
		err := rows.Scan(
			&svc.ID, &svc.CreatorID, &svc.Title, &svc.Price,
			&svc.Description, &tags, &svc.CoverURL, &svc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		svc.Tags = tags
		services = append(services, svc)
	}

	return services, nil
}

func (d *DatabaseClient) GetService(serviceID uuid.UUID) (*models.Service, error) {
	var svc models.Service
	var tags pq.StringArray
	err := d.db.QueryRow(`
		SELECT id, creator_id, title, price, description, tags, cover_url, created_at
		FROM services
		WHERE id = $1
	`, serviceID).Scan(
		&svc.ID, &svc.CreatorID, &svc.Title, &svc.Price,
		&svc.Description, &tags, &svc.CoverURL, &svc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	svc.Tags = tags

	return &svc, nil
}

func (d *DatabaseClient) ListServicesForCreator(creatorID uuid.UUID) ([]models.Service, error) {
	rows, err := d.db.Query(`
		SELECT id, creator_id, title, price, description, tags, cover_url, created_at
		FROM services
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var svc models.Service
		var tags pq.StringArray
		err := rows.Scan(
			&svc.ID, &svc.CreatorID, &svc.Title, &svc.Price,
			&svc.Description, &tags, &svc.CoverURL, &svc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		svc.Tags = tags
		services = append(services, svc)
	}

	return services, nil
}

func (d *DatabaseClient) DeleteService(serviceID, creatorID uuid.UUID) error {
	res, err := d.db.Exec(`
		DELETE FROM services
		WHERE id = $1 AND creator_id = $2
	`, serviceID, creatorID)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ---- orders ----

const orderColumns = `id, buyer_id, service_owner_id, service_id, amount, status, service_snapshot, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*models.Order, error) {
	var order models.Order
	err := row.Scan(
		&order.ID, &order.BuyerID, &order.ServiceOwnerID, &order.ServiceID,
		&order.Amount, &order.Status, &order.ServiceSnapshot,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *DatabaseClient) CreateOrder(buyerID, serviceOwnerID, serviceID uuid.UUID, amount float64, snapshot json.RawMessage) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRow(`
		INSERT INTO orders (buyer_id, service_owner_id, service_id, amount, status, service_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+orderColumns+`
	`, buyerID, serviceOwnerID, serviceID, amount, models.OrderStatusPending, snapshot))
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// GetOrderForUser returns the order only when userID is one of its two
// parties. Non-participants cannot tell the order exists.
func (d *DatabaseClient) GetOrderForUser(orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(d.db.QueryRow(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND (buyer_id = $2 OR service_owner_id = $2)
	`, orderID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (d *DatabaseClient) ListOrdersForBuyer(buyerID uuid.UUID) ([]models.Order, error) {
	return d.listOrders(`buyer_id = $1`, buyerID)
}

func (d *DatabaseClient) ListOrdersForSeller(sellerID uuid.UUID) ([]models.Order, error) {
	return d.listOrders(`service_owner_id = $1`, sellerID)
}

func (d *DatabaseClient) listOrders(where string, userID uuid.UUID) ([]models.Order, error) {
	rows, err := d.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE `+where+`
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

// ---- order versions ----

const versionColumns = `id, order_id, version_number, content_url, prompt_data, creator_notes, buyer_feedback, status, created_at`

func scanVersion(row interface{ Scan(...interface{}) error }) (*models.OrderVersion, error) {
	var v models.OrderVersion
	err := row.Scan(
		&v.ID, &v.OrderID, &v.VersionNumber, &v.ContentURL,
		&v.PromptData, &v.CreatorNotes, &v.BuyerFeedback, &v.Status, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (d *DatabaseClient) ListOrderVersions(orderID uuid.UUID) ([]models.OrderVersion, error) {
	rows, err := d.db.Query(`
		SELECT `+versionColumns+`
		FROM order_versions
		WHERE order_id = $1
		ORDER BY version_number ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order versions: %w", err)
	}
	defer rows.Close()

	var versions []models.OrderVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order version: %w", err)
		}
		versions = append(versions, *v)
	}

	return versions, nil
}

// ---- workflow appliers ----
//
// Each applier runs one transaction and re-checks the plan's expected state
// inside it. A zero-rows conditional update means a concurrent writer got
// there first; the whole transaction rolls back with workflow.ErrConflict.
// Mutations always land before the audit message, so any observer that sees
// the message reads already-consistent state.

// ApplyDelivery inserts the new version, moves the order to delivered, and
// appends the seller's audit message.
func (d *DatabaseClient) ApplyDelivery(plan *workflow.DeliveryPlan, contentURL string, promptData json.RawMessage) (*models.OrderVersion, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the order row so concurrent deliveries serialize on numbering.
	var status string
	err = tx.QueryRow(`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, plan.OrderID).Scan(&status)
	if err != nil {
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	if workflow.IsTerminal(status) {
		return nil, workflow.ErrConflict
	}

	var maxVersion int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(version_number), 0) FROM order_versions WHERE order_id = $1
	`, plan.OrderID).Scan(&maxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to read version history: %w", err)
	}
	if maxVersion+1 != plan.VersionNumber {
		// A concurrent delivery already claimed this number.
		return nil, workflow.ErrConflict
	}

	version, err := scanVersion(tx.QueryRow(`
		INSERT INTO order_versions (order_id, version_number, content_url, prompt_data, creator_notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+versionColumns+`
	`, plan.OrderID, plan.VersionNumber, contentURL, promptData, plan.CreatorNotes, models.VersionStatusPendingReview))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order version: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, models.OrderStatusDelivered, plan.OrderID); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err := insertMessageTx(tx, plan.OrderID, plan.SellerID, plan.AuditMessage); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delivery: %w", err)
	}

	return version, nil
}

// ApplyApproval approves the current version, completes the order, and
// appends the buyer's audit message.
func (d *DatabaseClient) ApplyApproval(plan *workflow.ApprovalPlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE order_versions SET status = $1
		WHERE order_id = $2 AND version_number = $3 AND status = $4
	`, models.VersionStatusApproved, plan.OrderID, plan.VersionNumber, models.VersionStatusPendingReview)
	if err != nil {
		return fmt.Errorf("failed to approve version: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	res, err = tx.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.OrderStatusCompleted, plan.OrderID, models.OrderStatusDelivered)
	if err != nil {
		return fmt.Errorf("failed to complete order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	if err := insertMessageTx(tx, plan.OrderID, plan.BuyerID, plan.AuditMessage); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit approval: %w", err)
	}

	return nil
}

// ApplyRevision rejects the current version with the buyer's feedback,
// returns the order to processing, and appends the audit message.
func (d *DatabaseClient) ApplyRevision(plan *workflow.RevisionPlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE order_versions SET status = $1, buyer_feedback = $2
		WHERE order_id = $3 AND version_number = $4 AND status = $5
	`, models.VersionStatusRejected, plan.Feedback, plan.OrderID, plan.VersionNumber, models.VersionStatusPendingReview)
	if err != nil {
		return fmt.Errorf("failed to reject version: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	res, err = tx.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.OrderStatusProcessing, plan.OrderID, models.OrderStatusDelivered)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	if err := insertMessageTx(tx, plan.OrderID, plan.BuyerID, plan.AuditMessage); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit revision: %w", err)
	}

	return nil
}

// ApplyAcceptance moves a pending order into processing.
func (d *DatabaseClient) ApplyAcceptance(plan *workflow.AcceptancePlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.OrderStatusProcessing, plan.OrderID, models.OrderStatusPending)
	if err != nil {
		return fmt.Errorf("failed to accept order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	if err := insertMessageTx(tx, plan.OrderID, plan.SellerID, plan.AuditMessage); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit acceptance: %w", err)
	}

	return nil
}

// ApplyCancellation closes a not-yet-terminal order.
func (d *DatabaseClient) ApplyCancellation(plan *workflow.CancellationPlan) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.OrderStatusCancelled, plan.OrderID, plan.ExpectedOrderStatus)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return workflow.ErrConflict
	}

	if err := insertMessageTx(tx, plan.OrderID, plan.ActorID, plan.AuditMessage); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	return nil
}

func insertMessageTx(tx *sql.Tx, orderID, senderID uuid.UUID, content string) error {
	if _, err := tx.Exec(`
		INSERT INTO messages (order_id, sender_id, content)
		VALUES ($1, $2, $3)
	`, orderID, senderID, content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ---- messages ----

func (d *DatabaseClient) CreateMessage(orderID, senderID uuid.UUID, content string) (*models.Message, error) {
	var msg models.Message
	err := d.db.QueryRow(`
		INSERT INTO messages (order_id, sender_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, order_id, sender_id, content, created_at
	`, orderID, senderID, content).Scan(
		&msg.ID, &msg.OrderID, &msg.SenderID, &msg.Content, &msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &msg, nil
}

func (d *DatabaseClient) ListMessages(orderID uuid.UUID) ([]models.Message, error) {
	rows, err := d.db.Query(`
		SELECT id, order_id, sender_id, content, created_at
		FROM messages
		WHERE order_id = $1
		ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(&msg.ID, &msg.OrderID, &msg.SenderID, &msg.Content, &msg.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

// ---- profiles ----

func (d *DatabaseClient) GetProfile(userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := d.db.QueryRow(`
		SELECT id, display_name, avatar_url, bio, created_at
		FROM profiles
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.DisplayName, &p.AvatarURL, &p.Bio, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

func (d *DatabaseClient) UpsertProfile(userID uuid.UUID, displayName, avatarURL, bio string) (*models.Profile, error) {
	var p models.Profile
	err := d.db.QueryRow(`
		INSERT INTO profiles (id, display_name, avatar_url, bio)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		ON CONFLICT (id) DO UPDATE
		SET display_name = NULLIF($2, ''), avatar_url = NULLIF($3, ''), bio = NULLIF($4, '')
		RETURNING id, display_name, avatar_url, bio, created_at
	`, userID, displayName, avatarURL, bio).Scan(
		&p.ID, &p.DisplayName, &p.AvatarURL, &p.Bio, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return &p, nil
}

// IsNotFound reports whether err came from a lookup that matched no rows.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
