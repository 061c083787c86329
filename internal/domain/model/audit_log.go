package model

import "time"

const (
	AuditActionUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	AuditActionCancelOrder       = "CANCEL_ORDER"
)

// 管理操作の監査ログ。追記のみ。
type AuditLog struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	OrderID   string    `json:"orderId"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
