package usecase

import "time"

// 現在時刻の注入口。テストでは固定時刻を渡す。
type Clock interface {
	Now() time.Time
}

// 注文ID等の採番の注入口。
type IDGenerator interface {
	NewID() string
}
