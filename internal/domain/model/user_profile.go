package model

import "time"

type UserProfile struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"pk"`
	PhoneNumber string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone_number"`
	FirstName   string    `gorm:"type:varchar(120)" json:"first_name"`
	LastName    string    `gorm:"type:varchar(120)" json:"last_name"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Province    string    `gorm:"type:varchar(120)" json:"province"`
	City        string    `gorm:"type:varchar(120)" json:"city"`
	Address     string    `gorm:"type:varchar(1024)" json:"address"`
	PostalCode  string    `gorm:"type:varchar(10)" json:"postal_code"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
