package usecase

import (
	"context"
	"errors"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

// 状態遷移の失敗理由。handlerへはHTTPErrorに変換して返す。
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal transition")
)

// setStatusEverywhere は注文ステータスを両コレクションへ反映する。
//
// 注文はユーザー側と管理者側の両方に複製されているので、
// 片方だけ更新して食い違いを作らないよう必ずここを通す。
//   - 両方に無い       → ErrOrderNotFound
//   - 片方にだけ有る   → 有る方だけ更新
//   - すでに同じ状態   → 何もしない成功（updatedAtも変えない）
//   - 遷移表に無い遷移 → ErrIllegalTransition
//
// restrictUserID が空でなければ、その userId の注文以外は見えない扱いにする。
// 戻り値の bool は実際に書き換えたかどうか。
func setStatusEverywhere(
	ctx context.Context,
	orderRepo repo.OrderRepository,
	clock Clock,
	orderID string,
	next model.OrderStatus,
	restrictUserID string,
) (model.Order, bool, error) {

	userOrders, err := orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	if err != nil {
		return model.Order{}, false, err
	}
	adminOrders, err := orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return model.Order{}, false, err
	}

	userIdx := findOrderIndex(userOrders, orderID, restrictUserID)
	adminIdx := findOrderIndex(adminOrders, orderID, restrictUserID)

	if userIdx < 0 && adminIdx < 0 {
		return model.Order{}, false, ErrOrderNotFound
	}

	var current model.Order
	if userIdx >= 0 {
		current = userOrders[userIdx]
	} else {
		current = adminOrders[adminIdx]
	}

	// 同じ状態への再設定はリトライとみなして成功で返す
	if current.Status == next {
		return current, false, nil
	}

	if !current.Status.CanTransitionTo(next) {
		return current, false, ErrIllegalTransition
	}

	now := clock.Now()

	if userIdx >= 0 {
		userOrders[userIdx].Status = next
		userOrders[userIdx].UpdatedAt = now
		if err := orderRepo.SaveAll(ctx, repo.OrderCollectionUser, userOrders); err != nil {
			return model.Order{}, false, err
		}
	}
	if adminIdx >= 0 {
		adminOrders[adminIdx].Status = next
		adminOrders[adminIdx].UpdatedAt = now
		if err := orderRepo.SaveAll(ctx, repo.OrderCollectionAdmin, adminOrders); err != nil {
			return model.Order{}, false, err
		}
	}

	updated := current
	updated.Status = next
	updated.UpdatedAt = now
	return updated, true, nil
}

func findOrderIndex(orders []model.Order, orderID string, restrictUserID string) int {
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if restrictUserID != "" && orders[i].UserID != restrictUserID {
			return -1
		}
		return i
	}
	return -1
}
