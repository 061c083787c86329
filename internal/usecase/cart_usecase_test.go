package usecase

import (
	"context"
	"net/http"
	"testing"

	infraRepo "freshmart/internal/infra/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newCartUsecaseForTest() (*CartUsecase, *infraRepo.KVMemoryStore) {
	kv := infraRepo.NewKVMemoryStore()
	return NewCartUsecase(infraRepo.NewCartKVRepository(kv)), kv
}

func TestCartUsecase_GetCart_EmptyWhenAbsent(t *testing.T) {
	uc, _ := newCartUsecaseForTest()

	out, err := uc.GetCart(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
	assert.Equal(t, "0.00", out.Total)
}

func TestCartUsecase_GetCart_NotAuthenticated(t *testing.T) {
	uc, _ := newCartUsecaseForTest()

	_, err := uc.GetCart(context.Background(), "")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
}

func TestCartUsecase_AddToCart_MergesSameProduct(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	in := AddCartInput{ProductID: 1, Name: "Apples", Price: decimal.NewFromInt(35), Quantity: 1}

	_, err := uc.AddToCart(ctx, "u1", in)
	assert.NoError(t, err)

	out, err := uc.AddToCart(ctx, "u1", in)
	assert.NoError(t, err)

	// 同じproductIdは1行のまま数量加算
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].Quantity)
	assert.Equal(t, "70.00", out.Total)
}

func TestCartUsecase_AddToCart_DefaultsQuantityToOne(t *testing.T) {
	uc, _ := newCartUsecaseForTest()

	out, err := uc.AddToCart(context.Background(), "u1", AddCartInput{
		ProductID: 2,
		Name:      "Milk",
		Price:     decimal.RequireFromString("2.50"),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Items[0].Quantity)
}

func TestCartUsecase_ChangeQuantity_RemovesLineAtZero(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	_, err := uc.AddToCart(ctx, "u1", AddCartInput{ProductID: 1, Name: "Apples", Price: decimal.NewFromInt(10), Quantity: 2})
	assert.NoError(t, err)

	out, err := uc.ChangeQuantity(ctx, "u1", 1, -2)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
}

func TestCartUsecase_ChangeQuantity_UnknownProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	_, err := uc.AddToCart(ctx, "u1", AddCartInput{ProductID: 1, Name: "Apples", Price: decimal.NewFromInt(10), Quantity: 1})
	assert.NoError(t, err)

	out, err := uc.ChangeQuantity(ctx, "u1", 999, 3)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(1), out.Items[0].Quantity)
}

func TestCartUsecase_RemoveFromCart(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	_, err := uc.AddToCart(ctx, "u1", AddCartInput{ProductID: 1, Name: "Apples", Price: decimal.NewFromInt(10), Quantity: 1})
	assert.NoError(t, err)
	_, err = uc.AddToCart(ctx, "u1", AddCartInput{ProductID: 2, Name: "Milk", Price: decimal.NewFromInt(3), Quantity: 1})
	assert.NoError(t, err)

	out, err := uc.RemoveFromCart(ctx, "u1", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(2), out.Items[0].ProductID)
}

// 保存データが壊れていても空カートとして動き続ける
func TestCartUsecase_MalformedStoredPayload_RecoversToEmpty(t *testing.T) {
	ctx := context.Background()
	uc, kv := newCartUsecaseForTest()

	err := kv.Put(ctx, "cart:u1", []byte("{not json"))
	assert.NoError(t, err)

	out, err := uc.GetCart(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
}

func TestCartUsecase_CartsAreIsolatedPerUser(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	_, err := uc.AddToCart(ctx, "u1", AddCartInput{ProductID: 1, Name: "Apples", Price: decimal.NewFromInt(10), Quantity: 1})
	assert.NoError(t, err)

	out, err := uc.GetCart(ctx, "u2")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(out.Items))
}

func TestCartUsecase_SubtotalKeepsPrecisionUntilOutput(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCartUsecaseForTest()

	// 0.1を3つ。floatなら0.30000000000000004になる組み合わせ
	out, err := uc.AddToCart(ctx, "u1", AddCartInput{
		ProductID: 1,
		Name:      "Candy",
		Price:     decimal.RequireFromString("0.1"),
		Quantity:  3,
	})
	assert.NoError(t, err)
	assert.Equal(t, "0.30", out.Total)
}
