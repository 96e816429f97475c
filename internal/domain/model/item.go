package model

import "github.com/shopspring/decimal"

// Item is a basket line. Price and Discount are copied from the book when
// the item is created and never follow later catalog changes.
type Item struct {
	ID       int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	BasketID int64           `gorm:"not null;uniqueIndex:idx_items_basket_book" json:"basket_id"`
	BookID   int64           `gorm:"not null;uniqueIndex:idx_items_basket_book;index" json:"book_id"`
	Count    int64           `gorm:"not null" json:"count"`
	Price    int64           `gorm:"not null" json:"price"`
	Discount decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"discount"`

	Book *Book `gorm:"foreignKey:BookID" json:"-"`
}

func (i Item) FinalPrice() int64 {
	return FinalPrice(i.Price, i.Discount)
}

func (i Item) Subtotal() int64 {
	return i.FinalPrice() * i.Count
}
