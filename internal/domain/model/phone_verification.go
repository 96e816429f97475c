package model

import "time"

const (
	// MaxPhoneVerificationQuery is how many wrong guesses burn a code.
	MaxPhoneVerificationQuery = 5
	PhoneVerificationTTL      = 2 * time.Minute
)

// PhoneVerification is one SMS code sent to a profile. Only the bcrypt
// hash of the code is kept.
type PhoneVerification struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"pk"`
	UserProfileID int64     `gorm:"not null;index" json:"-"`
	CodeHash      string    `gorm:"type:varchar(255);not null" json:"-"`
	QueryTimes    int       `gorm:"not null;default:0" json:"query_times"`
	Used          bool      `gorm:"not null;default:false" json:"-"`
	Burnt         bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt     time.Time `gorm:"not null;index" json:"create_date"`
}

func (v PhoneVerification) IsExpired(now time.Time) bool {
	return now.Sub(v.CreatedAt) > PhoneVerificationTTL
}

func (v PhoneVerification) IsUsable(now time.Time) bool {
	return !v.IsExpired(now) && !v.Used && !v.Burnt
}

func (v PhoneVerification) RemainingQueryTimes() int {
	n := MaxPhoneVerificationQuery - v.QueryTimes
	if n < 0 {
		return 0
	}
	return n
}
