package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"
)

// AdminOrderUsecase は管理画面の注文操作と集計を担当します。
type AdminOrderUsecase struct {
	orderRepo repo.OrderRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
	idGen     IDGenerator
}

// DI
func NewAdminOrderUsecase(
	orderRepo repo.OrderRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
	idGen IDGenerator,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		clock:     clock,
		idGen:     idGen,
	}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 全注文の一覧（新しい順）。状態・日付・キーワードで絞り込める。
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	var want model.OrderStatus
	if f.Status != "" {
		parsed, ok := model.ParseOrderStatus(f.Status)
		if !ok {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		want = parsed
	}

	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		if want != "" && o.Status != want {
			continue
		}
		if f.Date != "" && o.OrderDate.Format("2006-01-02") != f.Date {
			continue
		}
		if q != "" && !matchesQuery(o, q) {
			continue
		}
		outs = append(outs, buildOrderOutput(o))
	}

	sort.SliceStable(outs, func(i, j int) bool {
		return outs[i].OrderDate.After(outs[j].OrderDate)
	})

	return outs, nil
}

func matchesQuery(o model.Order, q string) bool {
	return strings.Contains(strings.ToLower(o.ID), q) ||
		strings.Contains(strings.ToLower(o.UserName), q) ||
		strings.Contains(strings.ToLower(o.UserEmail), q)
}

func (u *AdminOrderUsecase) Get(ctx context.Context, orderID string) (OrderOutput, error) {
	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	for _, o := range orders {
		if o.ID == orderID {
			return buildOrderOutput(o), nil
		}
	}
	return OrderOutput{}, NewHTTPError(http.StatusNotFound, msgNotFound)
}

// UpdateStatus は注文ステータスを変更し、両コレクションへ反映する。
// 実際に変わったときだけ監査ログを残す（同じ状態への再設定は残さない）。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Identity, orderID string, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if actor.ID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}
	if orderID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next, ok := model.ParseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	before, err := u.Get(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	order, changed, err := setStatusEverywhere(ctx, u.orderRepo, u.clock, orderID, next, "")
	if errors.Is(err, ErrOrderNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	if errors.Is(err, ErrIllegalTransition) {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, msgIllegalTransition)
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	if changed {
		log := model.AuditLog{
			ID:        u.idGen.NewID(),
			ActorID:   actor.ID,
			Action:    model.AuditActionUpdateOrderStatus,
			OrderID:   orderID,
			Detail:    fmt.Sprintf("%s -> %s", before.Status, next),
			CreatedAt: u.clock.Now(),
		}
		// 監査ログの失敗で更新自体は巻き戻さない
		_ = u.auditRepo.Append(ctx, log)
	}

	return buildOrderOutput(order), nil
}

// 直近n件（新しい順）
func (u *AdminOrderUsecase) Recent(ctx context.Context, n int) ([]OrderOutput, error) {
	if n <= 0 {
		n = 5
	}

	outs, err := u.List(ctx, repo.AdminOrderListFilter{})
	if err != nil {
		return []OrderOutput{}, err
	}

	if len(outs) > n {
		outs = outs[:n]
	}
	return outs, nil
}

func (u *AdminOrderUsecase) Dashboard(ctx context.Context) (DashboardSummary, error) {
	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return DashboardSummary{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}
	return Summarize(orders, u.clock.Now()), nil
}

func (u *AdminOrderUsecase) Customers(ctx context.Context) ([]CustomerSummary, error) {
	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return []CustomerSummary{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}
	return RollupCustomers(orders), nil
}

type AnalyticsOutput struct {
	Summary DashboardSummary      `json:"summary"`
	Monthly []MonthlyRevenuePoint `json:"monthly"`
}

func (u *AdminOrderUsecase) Analytics(ctx context.Context) (AnalyticsOutput, error) {
	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	if err != nil {
		return AnalyticsOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return AnalyticsOutput{
		Summary: Summarize(orders, u.clock.Now()),
		Monthly: MonthlyRevenue(orders),
	}, nil
}

func (u *AdminOrderUsecase) AuditLogs(ctx context.Context) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}
	return logs, nil
}
