// Package notification provides the outbox record of a message owed to a
// buyer or a seller. Records are written in the same transaction as the
// change they announce and delivered later by the outbox relay.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Recipient kinds.
type Recipient string

const (
	Buyer  Recipient = "buyer"
	Seller Recipient = "seller"
)

// Delivery states. Failed is terminal: the relay never retries.
type Status string

const (
	Pending Status = "pending"
	Sent    Status = "sent"
	Failed  Status = "failed"
)

// Events announced by the order pipeline.
const (
	EventOrderPlaced           = "order.placed"
	EventSubOrderCreated       = "suborder.created"
	EventSubOrderStatusChanged = "suborder.status_changed"
	EventItemCancelled         = "order.item_cancelled"
	EventOrderCancelled        = "order.cancelled"
	EventPaymentConfirmed      = "order.payment_confirmed"
)

// Payload is the JSON body handed to the dispatcher as is.
type Payload map[string]any

type Notification struct {
	id          kernel.UUID
	recipient   Recipient
	recipientID kernel.UUID
	event       string
	payload     Payload
	status      Status
	attempts    int
	lastError   string
	createdAt   time.Time
	processedAt *time.Time

	guard guard.ConstructorGuard
}

func NewNotification(recipient Recipient, recipientID kernel.UUID, event string, payload Payload, now time.Time) (*Notification, error) {
	return RestoreNotification(kernel.NewUUID(), recipient, recipientID, event, payload, Pending, 0, "", now, nil)
}

func RestoreNotification(
	id kernel.UUID,
	recipient Recipient,
	recipientID kernel.UUID,
	event string,
	payload Payload,
	deliveryStatus Status,
	attempts int,
	lastError string,
	createdAt time.Time,
	processedAt *time.Time,
) (*Notification, error) {
	var problems []error
	problems = append(problems, id.Validate(), recipientID.Validate())
	if recipient != Buyer && recipient != Seller {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("recipient", fmt.Errorf("%q is not a recipient kind", string(recipient))))
	}
	if strings.TrimSpace(event) == "" {
		problems = append(problems, errs.NewValueIsRequiredError("event"))
	}
	if deliveryStatus != Pending && deliveryStatus != Sent && deliveryStatus != Failed {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a delivery status", string(deliveryStatus))))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = Payload{}
	}

	return &Notification{
		id:          id,
		recipient:   recipient,
		recipientID: recipientID,
		event:       event,
		payload:     payload,
		status:      deliveryStatus,
		attempts:    attempts,
		lastError:   lastError,
		createdAt:   createdAt,
		processedAt: processedAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) ID() kernel.UUID          { return n.id }
func (n *Notification) Recipient() Recipient     { return n.recipient }
func (n *Notification) RecipientID() kernel.UUID { return n.recipientID }
func (n *Notification) Event() string            { return n.event }
func (n *Notification) Payload() Payload         { return n.payload }
func (n *Notification) Status() Status           { return n.status }
func (n *Notification) Attempts() int            { return n.attempts }
func (n *Notification) LastError() string        { return n.lastError }
func (n *Notification) CreatedAt() time.Time     { return n.createdAt }
func (n *Notification) ProcessedAt() *time.Time  { return n.processedAt }

// MarkSent records a successful delivery.
func (n *Notification) MarkSent(now time.Time) error {
	if n.status != Pending {
		return errs.NewConflictError("notification "+n.id.String(), fmt.Sprintf("already %s", n.status))
	}
	n.attempts++
	n.status = Sent
	n.lastError = ""
	n.processedAt = &now
	return nil
}

// MarkFailed records a failed delivery. The notification is not retried.
func (n *Notification) MarkFailed(cause error, now time.Time) error {
	if n.status != Pending {
		return errs.NewConflictError("notification "+n.id.String(), fmt.Sprintf("already %s", n.status))
	}
	n.attempts++
	n.status = Failed
	if cause != nil {
		n.lastError = cause.Error()
	}
	n.processedAt = &now
	return nil
}
