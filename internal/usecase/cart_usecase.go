package usecase

import (
	"context"
	"net/http"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// カートはユーザー単位で丸ごと保存し、変更のたびに全行を書き戻します。
type CartUsecase struct {
	cartRepo repo.CartRepository
}

// DI
func NewCartUsecase(cartRepo repo.CartRepository) *CartUsecase {
	return &CartUsecase{cartRepo: cartRepo}
}

type CartLineResponse struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int64  `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Unit      string `json:"unit,omitempty"`
	Subtotal  string `json:"subtotal"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total string             `json:"total"`
	Count int64              `json:"count"`
}

// 追加する商品は呼び出し側が丸ごと渡す（商品マスタ参照はしない）
type AddCartInput struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Image     string          `json:"image"`
	Unit      string          `json:"unit"`
}

// GetCart はカート取得（無ければ空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	lines, err := u.cartRepo.Load(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(lines), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	if in.Price.IsNegative() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	lines, err := u.cartRepo.Load(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == in.ProductID {
			lines[i].Quantity += in.Quantity
			found = true
			break
		}
	}
	if !found {
		line := model.CartLine{
			ProductID: in.ProductID,
			Name:      in.Name,
			UnitPrice: in.Price,
			Quantity:  in.Quantity,
			Image:     in.Image,
			Unit:      in.Unit,
		}
		line.Normalize()
		lines = append(lines, line)
	}

	if err := u.cartRepo.Save(ctx, userID, lines); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(lines), nil
}

// 数量を差分で変更。0以下になったら行ごと削除。
func (u *CartUsecase) ChangeQuantity(ctx context.Context, userID string, productID int64, delta int64) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	lines, err := u.cartRepo.Load(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	idx := -1
	for i := range lines {
		if lines[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// 対象行が無いときは何もしない（エラーにしない）
		return buildCartResponse(lines), nil
	}

	newQty := lines[idx].Quantity + delta
	if newQty <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = newQty
	}

	if err := u.cartRepo.Save(ctx, userID, lines); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(lines), nil
}

// 行削除
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID string, productID int64) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	lines, err := u.cartRepo.Load(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	kept := make([]model.CartLine, 0, len(lines))
	removed := false
	for _, l := range lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	if !removed {
		return buildCartResponse(lines), nil
	}

	if err := u.cartRepo.Save(ctx, userID, kept); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(kept), nil
}

// 全行削除
func (u *CartUsecase) ClearCart(ctx context.Context, userID string) (CartResponse, error) {
	if userID == "" {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, msgNotAuthenticated)
	}

	if err := u.cartRepo.Clear(ctx, userID); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return buildCartResponse(nil), nil
}

// 合計と件数をまとめてCartResponseを作る。
// 金額はここ（出力境界）でだけ2桁に丸める。
func buildCartResponse(lines []model.CartLine) CartResponse {
	items := make([]CartLineResponse, 0, len(lines))
	total := decimal.Zero
	var count int64 = 0

	for _, l := range lines {
		sub := l.Subtotal()
		items = append(items, CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Image:     l.Image,
			Unit:      l.Unit,
			Subtotal:  sub.StringFixed(2),
		})
		total = total.Add(sub)
		count += l.Quantity
	}

	return CartResponse{
		Items: items,
		Total: total.StringFixed(2),
		Count: count,
	}
}
