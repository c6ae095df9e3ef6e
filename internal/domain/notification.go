package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const SeverityError Severity = "error"

const (
	MsgAddFailed      = "product addition failed"
	MsgRemoveFailed   = "product removal failed"
	MsgStockExceeded  = "requested quantity exceeds stock"
	MsgQuantityFailed = "quantity change failed"
)

type Notification struct {
	ID        uuid.UUID
	Severity  Severity
	Message   string
	CreatedAt time.Time
}

func NewErrorNotification(message string, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		Severity:  SeverityError,
		Message:   message,
		CreatedAt: now,
	}
}
