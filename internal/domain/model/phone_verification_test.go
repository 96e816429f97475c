package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spsina/bookStore/internal/domain/model"
)

func TestPhoneVerificationUsable(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	v := model.PhoneVerification{CreatedAt: now.Add(-time.Minute)}
	assert.True(t, v.IsUsable(now))

	v.Used = true
	assert.False(t, v.IsUsable(now))

	v = model.PhoneVerification{CreatedAt: now.Add(-time.Minute), Burnt: true}
	assert.False(t, v.IsUsable(now))

	v = model.PhoneVerification{CreatedAt: now.Add(-model.PhoneVerificationTTL - time.Second)}
	assert.True(t, v.IsExpired(now))
	assert.False(t, v.IsUsable(now))
}

func TestPhoneVerificationRemainingQueryTimes(t *testing.T) {
	v := model.PhoneVerification{QueryTimes: 2}
	assert.Equal(t, model.MaxPhoneVerificationQuery-2, v.RemainingQueryTimes())

	v.QueryTimes = model.MaxPhoneVerificationQuery + 1
	assert.Equal(t, 0, v.RemainingQueryTimes())
}
