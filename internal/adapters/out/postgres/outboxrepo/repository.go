// Package outboxrepo persists pending notifications written in the same
// transaction as the state change they announce.
package outboxrepo

import (
	"context"
	"time"

	"marketplace/internal/adapters/out/postgres/pgconv"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationDTO struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey"`
	Recipient   string               `gorm:"type:varchar(16);not null"`
	RecipientID uuid.UUID            `gorm:"type:uuid;not null"`
	Event       string               `gorm:"type:varchar(64);not null"`
	Payload     notification.Payload `gorm:"type:jsonb;serializer:json"`
	Status      string               `gorm:"type:varchar(16);not null;index:idx_outbox_pending,priority:1"`
	Attempts    int                  `gorm:"not null;default:0"`
	LastError   string               `gorm:"type:text"`
	CreatedAt   time.Time            `gorm:"not null;index:idx_outbox_pending,priority:2"`
	ProcessedAt *time.Time
}

func (NotificationDTO) TableName() string {
	return "outbox_notifications"
}

type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormOutboxRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := fromDomain(n)
	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "attempts", "last_error", "processed_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pgconv.NotFound(gorm.ErrRecordNotFound, "notification", n.ID())
	}
	return nil
}

// ListPending locks up to limit pending notifications, oldest first. Rows
// locked by a concurrent relay are skipped.
func (r *GormOutboxRepository) ListPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", string(notification.Pending)).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	out := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		Recipient:   string(n.Recipient()),
		RecipientID: n.RecipientID().Bytes(),
		Event:       n.Event(),
		Payload:     n.Payload(),
		Status:      string(n.Status()),
		Attempts:    n.Attempts(),
		LastError:   n.LastError(),
		CreatedAt:   n.CreatedAt(),
		ProcessedAt: n.ProcessedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := pgconv.UUID(dto.ID)
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(id, notification.Recipient(dto.Recipient), recipientID, dto.Event, dto.Payload,
		notification.Status(dto.Status), dto.Attempts, dto.LastError, dto.CreatedAt.UTC(), dto.ProcessedAt)
}
