package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	u := BuildURL(DefaultBaseURL, "Alice", "2014-08-03", "2014-08-04", true)

	assert.Contains(t, u, "from%3Aalice")
	assert.Contains(t, u, "since%3A2014-08-03")
	assert.Contains(t, u, "until%3A2014-08-04")
	assert.Contains(t, u, "%20include%3Aretweets")
	assert.Equal(t,
		"https://twitter.com/search?f=tweets&vertical=default&q=from%3Aalice%20since%3A2014-08-03%20until%3A2014-08-04%20include%3Aretweets&src=typd",
		u)
}

func TestBuildURL_WithoutRetweets(t *testing.T) {
	u := BuildURL("", "bob", "2014-08-03", "2014-08-04", false)

	assert.NotContains(t, u, "retweets")
	assert.True(t, len(u) > len(DefaultBaseURL))
	assert.Contains(t, u, DefaultBaseURL+"?f=tweets")
}

func TestBuildURL_CustomBase(t *testing.T) {
	u := Query{BaseURL: "http://localhost:8080/search", Handle: "x", Since: "a", Until: "b"}.URL()
	assert.Equal(t, "http://localhost:8080/search?f=tweets&vertical=default&q=from%3Ax%20since%3Aa%20until%3Ab&src=typd", u)
}

func TestFormatDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2014, 8, 3, 0, 0, 0, 0, time.UTC), "2014-08-03"},
		{time.Date(2014, 11, 30, 0, 0, 0, 0, time.UTC), "2014-11-30"},
		{time.Date(2015, 1, 1, 23, 59, 0, 0, time.UTC), "2015-01-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDay(tt.in))
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2014-08-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2014, 8, 3, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("2014/08/03")
	assert.Error(t, err)
}

func TestWindow_DefaultRange(t *testing.T) {
	w, err := NewWindow("2014-08-03", "2014-11-03")
	require.NoError(t, err)

	days := w.Days()
	assert.Equal(t, 93, w.Len())
	require.Len(t, days, 93)
	assert.Equal(t, Day{Since: "2014-08-03", Until: "2014-08-04"}, days[0])
	assert.Equal(t, Day{Since: "2014-08-31", Until: "2014-09-01"}, days[28])
	assert.Equal(t, Day{Since: "2014-11-03", Until: "2014-11-04"}, days[92])
}

func TestWindow_SingleDayAndInvalid(t *testing.T) {
	w, err := NewWindow("2014-08-03", "2014-08-03")
	require.NoError(t, err)
	assert.Len(t, w.Days(), 1)

	_, err = NewWindow("2014-08-04", "2014-08-03")
	assert.Error(t, err)

	_, err = NewWindow("nope", "2014-08-03")
	assert.Error(t, err)
}
