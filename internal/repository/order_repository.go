package repository

import (
	"context"

	"freshmart/internal/domain/model"
)

// 注文は2つのコレクションに重複して保存される。
// ユーザー側と管理者側で、同じ注文IDが両方に現れる。
type OrderCollection string

const (
	OrderCollectionUser  OrderCollection = "orders:user"
	OrderCollectionAdmin OrderCollection = "orders:admin"
)

// 管理者一覧の絞り込み条件。ゼロ値は「絞り込まない」。
type AdminOrderListFilter struct {
	Status string // Pending等。空なら全件
	Date   string // YYYY-MM-DD。orderDateの日付一致
	Query  string // 注文ID/ユーザー名/メールの部分一致
}

// 注文コレクションを丸ごと読み書きする。
// 壊れたデータは空リストとして扱う。
type OrderRepository interface {
	LoadAll(ctx context.Context, col OrderCollection) ([]model.Order, error)
	SaveAll(ctx context.Context, col OrderCollection, orders []model.Order) error
}
