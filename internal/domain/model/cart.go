package model

import "github.com/shopspring/decimal"

// 画像未設定の商品に使うプレースホルダー。
const DefaultProductImage = "https://images.pexels.com/photos/1300972/pexels-photo-1300972.jpeg?auto=compress&cs=tinysrgb&w=64&h=64&fit=crop"

const DefaultUnitLabel = "unit"

// カートの明細。
// 同じproductIdの行はカート内に1つだけ。
type CartLine struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	Unit      string          `json:"unit,omitempty"`
}

// 画像・単位が空ならデフォルトを入れる。
func (l *CartLine) Normalize() {
	if l.Image == "" {
		l.Image = DefaultProductImage
	}
	if l.Unit == "" {
		l.Unit = DefaultUnitLabel
	}
}

// Subtotal は単価×数量。丸めは表示側で行う。
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// SanitizeCartLines は保存データを読み戻すときの整形。
// 数量0以下・ID不正の行を捨て、同じproductIdは数量を合算して1行にする。
func SanitizeCartLines(lines []CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines))
	index := make(map[int64]int, len(lines))

	for _, l := range lines {
		if l.ProductID <= 0 || l.Quantity <= 0 {
			continue
		}
		if l.UnitPrice.IsNegative() {
			continue
		}
		l.Normalize()

		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}

	return out
}
