package prayer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrayerLabels(t *testing.T) {
	assert.Equal(t, "Subuh", Fajr.Label("id"))
	assert.Equal(t, "Isya", Isha.Label("id"))
	assert.Equal(t, "Dhuhr", Dhuhr.Label("en"))
	assert.Equal(t, "Asr", Asr.Label("fr"))
	assert.Equal(t, "maghrib", Maghrib.String())
}

func TestParsePrayer(t *testing.T) {
	for _, p := range Prayers {
		got, err := ParsePrayer(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	got, err := ParsePrayer(" ASR ")
	require.NoError(t, err)
	assert.Equal(t, Asr, got)

	_, err = ParsePrayer("sunrise")
	assert.Error(t, err)
}

func TestNextPrayerJSON(t *testing.T) {
	n := NextPrayer{Prayer: Maghrib, Time: time.Date(2024, time.March, 20, 11, 4, 0, 0, time.UTC), Remaining: time.Hour}
	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prayer":"maghrib","time":"2024-03-20T11:04:00Z"}`, string(raw))
}

func TestValidateRejectsDisorder(t *testing.T) {
	set := fixedDay(time.UTC, 2024, time.March, 20)
	require.NoError(t, set.Validate())

	swapped := set
	swapped.Asr, swapped.Dhuhr = set.Dhuhr, set.Asr
	assert.Error(t, swapped.Validate())

	early := set
	early.Maghrib = set.Sunset.Add(-time.Minute)
	assert.Error(t, early.Validate())
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.February, 29}, d.AddDays(1))
	assert.Equal(t, Date{2024, time.March, 1}, d.AddDays(2))
	assert.Equal(t, "2024-02-28", d.String())
	assert.True(t, d.Before(d.AddDays(1)))

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)

	wib := time.FixedZone("WIB", 7*3600)
	assert.Equal(t, Date{2024, time.March, 21}, DateOf(time.Date(2024, time.March, 20, 18, 0, 0, 0, time.UTC).In(wib)))
}
