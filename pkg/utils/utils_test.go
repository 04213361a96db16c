package utils_test

import (
	"testing"
	"time"

	"ComputexChatbot/pkg/utils"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := utils.New()
	now := time.Now()

	id, err := u.NewULIDFromTimestamp(now)
	require.NoError(t, err)

	parsed, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(now), parsed.Time())
}

func TestNewSessionID(t *testing.T) {
	u := utils.New()

	first := u.NewSessionID()
	second := u.NewSessionID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestParseHours(t *testing.T) {
	u := utils.New()

	hours, err := u.ParseHours("", 24)
	require.NoError(t, err)
	assert.Equal(t, 24, hours)

	hours, err = u.ParseHours("6", 24)
	require.NoError(t, err)
	assert.Equal(t, 6, hours)

	_, err = u.ParseHours("-1", 24)
	assert.Error(t, err)

	_, err = u.ParseHours("abc", 24)
	assert.Error(t, err)
}
