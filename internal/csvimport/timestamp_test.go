package csvimport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/bizdesk/internal/csvimport"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 7, 9, 14, 5, 6, 0, time.UTC)

	for _, in := range []string{
		"2024-07-09T14:05:06Z",
		"2024-07-09T14:05:06",
		"2024-07-09 14:05:06",
		"2024-07-09T11:05:06-03:00",
		" 2024-07-09T14:05:06.000000 ",
	} {
		t.Run("Should parse "+in, func(t *testing.T) {
			got, err := csvimport.ParseTimestamp(in)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}

	t.Run("Should reject a non ISO date", func(t *testing.T) {
		_, err := csvimport.ParseTimestamp("09/07/2024")
		assert.Error(t, err)
	})

	t.Run("Should format the zero time as empty", func(t *testing.T) {
		assert.Equal(t, "", csvimport.FormatTimestamp(time.Time{}))
		assert.Equal(t, "2024-07-09T14:05:06Z", csvimport.FormatTimestamp(want))
	})
}

func TestParseDecimal(t *testing.T) {
	got, err := csvimport.ParseDecimal("10,50")
	require.NoError(t, err)
	assert.Equal(t, "10.5", got.String())

	_, err = csvimport.ParsePrice("-0,01")
	assert.EqualError(t, err, "price must not be negative")
}
