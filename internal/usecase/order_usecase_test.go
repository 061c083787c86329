package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"freshmart/internal/domain/model"
	infraRepo "freshmart/internal/infra/repository"
	repo "freshmart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type orderTestEnv struct {
	kv        *infraRepo.KVMemoryStore
	cartRepo  *infraRepo.CartKVRepository
	orderRepo *infraRepo.OrderKVRepository
	clock     *fixedClock
	uc        *OrderUsecase
}

func newOrderTestEnv() *orderTestEnv {
	kv := infraRepo.NewKVMemoryStore()
	cartRepo := infraRepo.NewCartKVRepository(kv)
	orderRepo := infraRepo.NewOrderKVRepository(kv)
	clock := &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	return &orderTestEnv{
		kv:        kv,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		clock:     clock,
		uc:        NewOrderUsecase(cartRepo, orderRepo, clock, &seqIDGen{}),
	}
}

func (e *orderTestEnv) seedCart(t *testing.T, userID string, lines []model.CartLine) {
	t.Helper()
	assert.NoError(t, e.cartRepo.Save(context.Background(), userID, lines))
}

var identityU1 = model.Identity{ID: "u1", Name: "Taro", Email: "taro@example.com", Role: model.RoleUser}

func TestOrderUsecase_Checkout_TotalsAndClearsCart(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(35), Quantity: 2},
	})

	out, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	assert.Equal(t, "70.00", out.TotalAmount)
	assert.Equal(t, model.OrderStatusPending, out.Status)
	assert.Equal(t, model.PaymentStatusPending, out.PaymentStatus)
	assert.Equal(t, env.clock.now, out.OrderDate)
	assert.Equal(t, env.clock.now.Add(48*time.Hour), out.EstimatedDelivery)

	// 住所未指定ならデフォルト住所が入る
	assert.Equal(t, model.DefaultDeliveryAddress(), out.DeliveryAddress)

	// カートは空になっている
	cart, err := env.cartRepo.Load(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(cart))

	// 両コレクションに同じ注文が入っている
	userOrders, err := env.orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	assert.NoError(t, err)
	adminOrders, err := env.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	assert.NoError(t, err)
	assert.Len(t, userOrders, 1)
	assert.Len(t, adminOrders, 1)
	assert.Equal(t, userOrders[0].ID, adminOrders[0].ID)
}

func TestOrderUsecase_Checkout_NotAuthenticated(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(35), Quantity: 2},
	})

	_, err := env.uc.Checkout(ctx, model.Identity{}, CheckoutInput{})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "not authenticated", he.Message)

	// カートはそのまま
	cart, err := env.cartRepo.Load(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestOrderUsecase_Checkout_EmptyCart(t *testing.T) {
	env := newOrderTestEnv()

	_, err := env.uc.Checkout(context.Background(), identityU1, CheckoutInput{})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "cart empty", he.Message)
}

// 保存に失敗したらカートを消さない
func TestOrderUsecase_Checkout_PersistenceFailureKeepsCart(t *testing.T) {
	ctx := context.Background()

	kv := infraRepo.NewKVMemoryStore()
	cartRepo := infraRepo.NewCartKVRepository(kv)

	flaky := &flakyKV{inner: kv}
	orderRepo := infraRepo.NewOrderKVRepository(flaky)

	clock := &fixedClock{now: time.Now()}
	uc := NewOrderUsecase(cartRepo, orderRepo, clock, &seqIDGen{})

	lines := []model.CartLine{
		{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(35), Quantity: 2},
	}
	assert.NoError(t, cartRepo.Save(ctx, "u1", lines))

	flaky.failPuts = true

	_, err := uc.Checkout(ctx, identityU1, CheckoutInput{})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, he.Status)
	assert.Equal(t, "storage error", he.Message)

	cart, err := cartRepo.Load(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestOrderUsecase_Checkout_RoundsLineSubtotals(t *testing.T) {
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{
		{ProductID: 1, Name: "Cheese", UnitPrice: decimal.RequireFromString("3.333"), Quantity: 3},
	})

	out, err := env.uc.Checkout(context.Background(), identityU1, CheckoutInput{})
	assert.NoError(t, err)

	// 小計はここで2桁に丸めて保存する
	assert.Equal(t, "10.00", out.Items[0].Subtotal)
	assert.Equal(t, "10.00", out.TotalAmount)
}

func TestOrderUsecase_ListMyOrders_FiltersAndSortsDesc(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 1}})
	first, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	env.clock.now = env.clock.now.Add(time.Hour)
	env.seedCart(t, "u1", []model.CartLine{{ProductID: 2, Name: "Milk", UnitPrice: decimal.NewFromInt(5), Quantity: 1}})
	second, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	outs, err := env.uc.ListMyOrders(ctx, "u1", "")
	assert.NoError(t, err)
	assert.Len(t, outs, 2)
	assert.Equal(t, second.ID, outs[0].ID)
	assert.Equal(t, first.ID, outs[1].ID)

	// 他ユーザーには見えない
	outs, err = env.uc.ListMyOrders(ctx, "u2", "")
	assert.NoError(t, err)
	assert.Len(t, outs, 0)

	// ステータス絞り込み
	outs, err = env.uc.ListMyOrders(ctx, "u1", "Pending")
	assert.NoError(t, err)
	assert.Len(t, outs, 2)

	outs, err = env.uc.ListMyOrders(ctx, "u1", "Delivered")
	assert.NoError(t, err)
	assert.Len(t, outs, 0)

	_, err = env.uc.ListMyOrders(ctx, "u1", "bogus")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestOrderUsecase_CancelMyOrder_MirrorsBothCollections(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 1}})
	placed, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	out, err := env.uc.CancelMyOrder(ctx, "u1", placed.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, out.Status)

	// 両コレクションとも同じ状態になっている
	userOrders, _ := env.orderRepo.LoadAll(ctx, repo.OrderCollectionUser)
	adminOrders, _ := env.orderRepo.LoadAll(ctx, repo.OrderCollectionAdmin)
	assert.Equal(t, model.OrderStatusCancelled, userOrders[0].Status)
	assert.Equal(t, model.OrderStatusCancelled, adminOrders[0].Status)
}

// キャンセル済みへの再キャンセルは成功扱いでupdatedAtも変えない
func TestOrderUsecase_CancelMyOrder_Idempotent(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 1}})
	placed, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	first, err := env.uc.CancelMyOrder(ctx, "u1", placed.ID)
	assert.NoError(t, err)

	env.clock.now = env.clock.now.Add(time.Hour)

	second, err := env.uc.CancelMyOrder(ctx, "u1", placed.ID)
	assert.NoError(t, err)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestOrderUsecase_CancelMyOrder_NotFoundForOtherUser(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 1}})
	placed, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	_, err = env.uc.CancelMyOrder(ctx, "u2", placed.ID)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestOrderUsecase_Reorder_MergesIntoCart(t *testing.T) {
	ctx := context.Background()
	env := newOrderTestEnv()

	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 2}})
	placed, err := env.uc.Checkout(ctx, identityU1, CheckoutInput{})
	assert.NoError(t, err)

	// 再注文前にカートへ別の行を入れておく
	env.seedCart(t, "u1", []model.CartLine{{ProductID: 1, Name: "Apples", UnitPrice: decimal.NewFromInt(10), Quantity: 1}})

	out, err := env.uc.Reorder(ctx, "u1", placed.ID)
	assert.NoError(t, err)

	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.Items[0].Quantity)
}
