package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	ISBN        string          `gorm:"column:isbn;type:varchar(32)" json:"isbn"`
	Price       int64           `gorm:"not null" json:"price"`
	Discount    decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"discount"`
	Count       int64           `gorm:"not null;default:0" json:"count"`
	IsDelete    bool            `gorm:"not null;default:false;index" json:"is_delete"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// FinalPrice is the discounted unit price, rounded up to a whole Toman.
func (b Book) FinalPrice() int64 {
	return FinalPrice(b.Price, b.Discount)
}

// FinalPrice computes ceil(price × (1 − discount)).
func FinalPrice(price int64, discount decimal.Decimal) int64 {
	factor := decimal.NewFromInt(1).Sub(discount)
	return decimal.NewFromInt(price).Mul(factor).Ceil().IntPart()
}
