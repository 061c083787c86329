package usecase

import (
	"sort"
	"time"

	"freshmart/internal/domain/model"

	"github.com/shopspring/decimal"
)

// ダッシュボード用の集計。注文リストを読むだけの純関数で、副作用はない。
// 売上にはキャンセル済みも含める（画面側の数字と一致させるため）。

type DashboardSummary struct {
	TotalOrders       int    `json:"totalOrders"`
	PendingOrders     int    `json:"pendingOrders"`
	TodayOrders       int    `json:"todayOrders"`
	DeliveredOrders   int    `json:"deliveredOrders"`
	TotalRevenue      string `json:"totalRevenue"`
	AverageOrderValue string `json:"averageOrderValue"`
}

type CustomerSummary struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	OrderCount int       `json:"orderCount"`
	TotalSpent string    `json:"totalSpent"`
	LastOrder  time.Time `json:"lastOrder"`
}

type MonthlyRevenuePoint struct {
	Month   string `json:"month"` // 例: "January 2026"
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

// Summarize は注文全件からダッシュボードの数字を出す。
func Summarize(orders []model.Order, now time.Time) DashboardSummary {
	total := decimal.Zero
	pending := 0
	today := 0
	delivered := 0

	for _, o := range orders {
		total = total.Add(o.TotalAmount)
		if o.Status == model.OrderStatusPending {
			pending++
		}
		if o.Status == model.OrderStatusDelivered {
			delivered++
		}
		if sameCalendarDay(o.OrderDate, now) {
			today++
		}
	}

	avg := decimal.Zero
	if len(orders) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}

	return DashboardSummary{
		TotalOrders:       len(orders),
		PendingOrders:     pending,
		TodayOrders:       today,
		DeliveredOrders:   delivered,
		TotalRevenue:      total.StringFixed(2),
		AverageOrderValue: avg.StringFixed(2),
	}
}

// RollupCustomers はuserIdごとに件数・合計金額・最終注文日時をまとめる。
// 結果は合計金額の大きい順。
func RollupCustomers(orders []model.Order) []CustomerSummary {
	type acc struct {
		summary CustomerSummary
		spent   decimal.Decimal
	}

	byUser := map[string]*acc{}
	seen := []string{}

	for _, o := range orders {
		a, ok := byUser[o.UserID]
		if !ok {
			a = &acc{
				summary: CustomerSummary{
					UserID:    o.UserID,
					Name:      o.UserName,
					Email:     o.UserEmail,
					LastOrder: o.OrderDate,
				},
				spent: decimal.Zero,
			}
			byUser[o.UserID] = a
			seen = append(seen, o.UserID)
		}

		a.summary.OrderCount++
		a.spent = a.spent.Add(o.TotalAmount)

		// 同時刻なら先に見た方を残す
		if o.OrderDate.After(a.summary.LastOrder) {
			a.summary.LastOrder = o.OrderDate
		}
	}

	outs := make([]CustomerSummary, 0, len(seen))
	for _, id := range seen {
		a := byUser[id]
		a.summary.TotalSpent = a.spent.StringFixed(2)
		outs = append(outs, a.summary)
	}

	sort.SliceStable(outs, func(i, j int) bool {
		si, _ := decimal.NewFromString(outs[i].TotalSpent)
		sj, _ := decimal.NewFromString(outs[j].TotalSpent)
		return si.GreaterThan(sj)
	})

	return outs
}

// MonthlyRevenue は月（暦月）ごとの売上。古い月から順に返す。
func MonthlyRevenue(orders []model.Order) []MonthlyRevenuePoint {
	type acc struct {
		orders  int
		revenue decimal.Decimal
	}

	byMonth := map[time.Time]*acc{}

	for _, o := range orders {
		key := time.Date(o.OrderDate.Year(), o.OrderDate.Month(), 1, 0, 0, 0, 0, o.OrderDate.Location())
		a, ok := byMonth[key]
		if !ok {
			a = &acc{revenue: decimal.Zero}
			byMonth[key] = a
		}
		a.orders++
		a.revenue = a.revenue.Add(o.TotalAmount)
	}

	keys := make([]time.Time, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	outs := make([]MonthlyRevenuePoint, 0, len(keys))
	for _, k := range keys {
		a := byMonth[k]
		outs = append(outs, MonthlyRevenuePoint{
			Month:   k.Format("January 2006"),
			Orders:  a.orders,
			Revenue: a.revenue.StringFixed(2),
		})
	}

	return outs
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
