package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateIn(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	// 22:30 UTC is already the next day in Nairobi (UTC+3).
	instant := time.Date(2026, 8, 20, 22, 30, 0, 0, time.UTC)

	utcDay := DateIn(instant, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), utcDay)

	nairobiDay := DateIn(instant, nairobi)
	assert.Equal(t, 21, nairobiDay.Day())
}

func TestSameDay(t *testing.T) {
	nairobi, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	a := time.Date(2026, 8, 20, 22, 30, 0, 0, time.UTC)
	b := time.Date(2026, 8, 21, 4, 0, 0, 0, time.UTC)

	assert.False(t, SameDay(a, b, time.UTC))
	assert.True(t, SameDay(a, b, nairobi))
}
