package models

import "time"

// Product codes double as Telegram invoice payloads.
const (
	ProductSub30    = "sub_30d"
	ProductPriority = "priority_30d"
	ProductPin7     = "pin_7d"
)

// Product is a purchasable entitlement.
type Product struct {
	Code         string        `json:"code"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	PriceKopecks int           `json:"price_kopecks"` // RUB minor units
	Duration     time.Duration `json:"duration"`
}

var products = []Product{
	{
		Code:         ProductSub30,
		Title:        "Подписка на 30 дней",
		Description:  "Безлимитный приём заказов в течение 30 дней",
		PriceKopecks: 99000,
		Duration:     30 * 24 * time.Hour,
	},
	{
		Code:         ProductPriority,
		Title:        "Приоритет на 30 дней",
		Description:  "Ваша анкета показывается первой в рассылке заказов",
		PriceKopecks: 49000,
		Duration:     30 * 24 * time.Hour,
	},
	{
		Code:         ProductPin7,
		Title:        "Закреп на 7 дней",
		Description:  "Анкета закрепляется в каталоге мастеров на 7 дней",
		PriceKopecks: 19000,
		Duration:     7 * 24 * time.Hour,
	},
}

// Products returns the purchasable catalog in display order.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// ProductByCode looks up a product by its invoice payload code.
func ProductByCode(code string) (Product, bool) {
	for _, p := range products {
		if p.Code == code {
			return p, true
		}
	}
	return Product{}, false
}
