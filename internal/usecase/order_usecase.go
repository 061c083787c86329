package usecase

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文確定からお届け予定までのリードタイム
const deliveryLeadTime = 48 * time.Hour

// OrderUsecase はカートから注文への変換と、ユーザー側の注文操作を担当します。
type OrderUsecase struct {
	cartRepo  repo.CartRepository
	orderRepo repo.OrderRepository
	clock     Clock
	idGen     IDGenerator
}

// DI
func NewOrderUsecase(
	cartRepo repo.CartRepository,
	orderRepo repo.OrderRepository,
	clock Clock,
	idGen IDGenerator,
) *OrderUsecase {
	return &OrderUsecase{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		clock:     clock,
		idGen:     idGen,
	}
}

type OrderLineResponse struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Subtotal  string `json:"subtotal"`
}

type OrderOutput struct {
	ID                string                `json:"id"`
	ShortID           string                `json:"shortId"`
	UserID            string                `json:"userId"`
	UserName          string                `json:"userName"`
	UserEmail         string                `json:"userEmail"`
	Items             []OrderLineResponse   `json:"items"`
	TotalAmount       string                `json:"totalAmount"`
	Status            model.OrderStatus     `json:"status"`
	PaymentStatus     model.PaymentStatus   `json:"paymentStatus"`
	DeliveryAddress   model.DeliveryAddress `json:"deliveryAddress"`
	OrderNotes        string                `json:"orderNotes,omitempty"`
	OrderDate         time.Time             `json:"orderDate"`
	EstimatedDelivery time.Time             `json:"estimatedDelivery"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

type CheckoutInput struct {
	DeliveryAddress *model.DeliveryAddress
	OrderNotes      string
}

// Checkout はカートを注文に変換する。
// 成功時だけカートを空にする。保存に失敗したらカートはそのまま残す。
func (u *OrderUsecase) Checkout(ctx context.Context, identity model.Identity, in CheckoutInput) (OrderOutput, error) {
	if identity.ID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	lines, err := u.cartRepo.Load(ctx, identity.ID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}
	if len(lines) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, msgCartEmpty)
	}

	now := u.clock.Now()

	// 明細の小計と合計はここでだけ2桁に丸めて保存する
	items := make([]model.OrderLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		sub := l.Subtotal().Round(2)
		items = append(items, model.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Image:     l.Image,
			Unit:      l.Unit,
			Subtotal:  sub,
		})
		total = total.Add(sub)
	}

	addr := model.DefaultDeliveryAddress()
	if in.DeliveryAddress != nil {
		addr = *in.DeliveryAddress
	}

	order := model.Order{
		ID:                u.idGen.NewID(),
		UserID:            identity.ID,
		UserName:          identity.DisplayName(),
		UserEmail:         identity.Email,
		Items:             items,
		TotalAmount:       total.Round(2),
		Status:            model.OrderStatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		DeliveryAddress:   addr,
		OrderNotes:        in.OrderNotes,
		OrderDate:         now,
		EstimatedDelivery: now.Add(deliveryLeadTime),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// ユーザー側→管理者側の順に追記。どちらかが失敗したらカートは消さない
	if err := u.appendOrder(ctx, repo.OrderCollectionUser, order); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}
	if err := u.appendOrder(ctx, repo.OrderCollectionAdmin, order); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	if err := u.cartRepo.Clear(ctx, identity.ID); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildOrderOutput(order), nil
}

func (u *OrderUsecase) appendOrder(ctx context.Context, col repo.OrderCollection, order model.Order) error {
	orders, err := u.orderRepo.LoadAll(ctx, col)
	if err != nil {
		return err
	}
	orders = append(orders, order)
	return u.orderRepo.SaveAll(ctx, col, orders)
}

// 自分の注文一覧（新しい順）。statusを渡すと絞り込み。
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string, status string) ([]OrderOutput, error) {
	if userID == "" {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	var want model.OrderStatus
	if status != "" {
		parsed, ok := model.ParseOrderStatus(status)
		if !ok {
			return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		want = parsed
	}

	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		if o.UserID != userID {
			continue
		}
		if want != "" && o.Status != want {
			continue
		}
		outs = append(outs, buildOrderOutput(o))
	}

	sort.SliceStable(outs, func(i, j int) bool {
		return outs[i].OrderDate.After(outs[j].OrderDate)
	})

	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	for _, o := range orders {
		if o.ID == orderID && o.UserID == userID {
			return buildOrderOutput(o), nil
		}
	}
	return OrderOutput{}, NewHTTPError(http.StatusNotFound, msgNotFound)
}

// 自分の注文をキャンセルする。Pendingのときだけ通る。
// キャンセル済みへの再実行は成功扱い（何も変えない）。
func (u *OrderUsecase) CancelMyOrder(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	order, _, err := setStatusEverywhere(ctx, u.orderRepo, u.clock, orderID, model.OrderStatusCancelled, userID)
	if errors.Is(err, ErrOrderNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, msgNotFound)
	}
	if errors.Is(err, ErrIllegalTransition) {
		return OrderOutput{}, NewHTTPError(http.StatusConflict, msgIllegalTransition)
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildOrderOutput(order), nil
}

// 過去の注文と同じ内容をカートへ積み直す（同一商品は数量加算）。
func (u *OrderUsecase) Reorder(ctx context.Context, userID string, orderID string) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	orders, err := u.orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	var target *model.Order
	for i := range orders {
		if orders[i].ID == orderID && orders[i].UserID == userID {
			target = &orders[i]
			break
		}
	}
	if target == nil {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, msgNotFound)
	}

	lines, err := u.cartRepo.Load(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	for _, item := range target.Items {
		merged := false
		for i := range lines {
			if lines[i].ProductID == item.ProductID {
				lines[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			line := model.CartLine{
				ProductID: item.ProductID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				Image:     item.Image,
				Unit:      item.Unit,
			}
			line.Normalize()
			lines = append(lines, line)
		}
	}

	if err := u.cartRepo.Save(ctx, userID, lines); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(lines), nil
}

func buildOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderLineResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderLineResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			Image:     it.Image,
			Unit:      it.Unit,
			Subtotal:  it.Subtotal.StringFixed(2),
		})
	}

	return OrderOutput{
		ID:                o.ID,
		ShortID:           model.ShortOrderID(o.ID),
		UserID:            o.UserID,
		UserName:          o.UserName,
		UserEmail:         o.UserEmail,
		Items:             items,
		TotalAmount:       o.TotalAmount.StringFixed(2),
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		DeliveryAddress:   o.DeliveryAddress,
		OrderNotes:        o.OrderNotes,
		OrderDate:         o.OrderDate,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}
