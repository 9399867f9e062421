package analytics

import (
	"testing"
	"time"

	"github.com/Rrens/support-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("", "", "", nil)
	require.NoError(t, err)
	assert.Nil(t, f.DateFrom)
	assert.Nil(t, f.DateTo)
	assert.Nil(t, f.WithMicroInteractions)

	f, err = ParseFilter("2024-06-01", "2024-06-08", "true", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2024, 6, 8, 23, 59, 59, 999999999, time.UTC), *f.DateTo)
	require.NotNil(t, f.WithMicroInteractions)
	assert.True(t, *f.WithMicroInteractions)

	f, err = ParseFilter("2024-06-01T10:00:00Z", "2024-06-01T12:00:00-03:00", "false", time.UTC)
	require.NoError(t, err)
	assert.True(t, f.DateTo.Equal(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)))
	assert.False(t, *f.WithMicroInteractions)
}

func TestParseFilter_Invalid(t *testing.T) {
	cases := [][3]string{
		{"yesterday", "", ""},
		{"", "06/01/2024", ""},
		{"", "", "maybe"},
		{"2024-06-10", "2024-06-01", ""},
	}
	for _, c := range cases {
		_, err := ParseFilter(c[0], c[1], c[2], time.UTC)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, c)
	}
}

func TestStatsFilter_Match(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	micro := true
	f := domain.StatsFilter{DateFrom: &from, DateTo: &to, WithMicroInteractions: &micro}

	in := domain.Session{CreatedAt: from.Add(time.Hour), WithMicroInteractions: true}
	assert.True(t, f.Match(&in))

	in.WithMicroInteractions = false
	assert.False(t, f.Match(&in))

	early := domain.Session{CreatedAt: from.Add(-time.Second), WithMicroInteractions: true}
	assert.False(t, f.Match(&early))
}
