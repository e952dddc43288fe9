package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timelineHTML = `<html><body><ol>
<li class="js-stream-item"><small class="time"><a class="tweet-timestamp" href="/alice/status/501">1h</a></small></li>
<li class="js-stream-item"><small class="time"><a class="tweet-timestamp" href="https://twitter.com/alice/status/502?lang=en">2h</a></small></li>
<li class="js-stream-item"><div class="promo">ad</div></li>
<li class="js-stream-item"><small class="time"><a class="tweet-timestamp" href="/alice/status/503/">3h</a></small></li>
</ol></body></html>`

func TestExtractSnapshot(t *testing.T) {
	snap, err := ExtractSnapshot(timelineHTML, "li.js-stream-item", ".time a.tweet-timestamp", "href")
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Found)
	assert.Equal(t, []string{"501", "502", "503"}, snap.IDs)
	assert.Equal(t, 1, snap.Missing)
}

func TestExtractSnapshot_Empty(t *testing.T) {
	snap, err := ExtractSnapshot("<html></html>", "li.js-stream-item", "a", "href")
	require.NoError(t, err)
	assert.Zero(t, snap.Found)
	assert.Empty(t, snap.IDs)
}

func TestLastSegment(t *testing.T) {
	tests := map[string]string{
		"/user/status/123":      "123",
		"/user/status/123/":     "123",
		"/user/status/123?s=20": "123",
		"/user/status/123#frag": "123",
		"456":                   "456",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, lastSegment(in), in)
	}
}
