package yahoo

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"

	"financeeye-api/pkg/market"
)

// This test uses go-vcr to record/replay a real chart call.
// It skips by default if cassette is absent and RECORD_CASSETTES != 1.
func TestClient_History_Recorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "yahoo_chart.yaml")
	if _, err := os.Stat(cassette); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s", cassette)
		}
		// Ensure parent directory exists for recording
		err := os.MkdirAll(filepath.Dir(cassette), 0o755)
		assert.NoError(t, err, "mkdir cassettes dir should succeed")
	}

	r, err := recorder.New(cassette)
	assert.NoError(t, err, "recorder.New should not error")
	assert.NotNil(t, r, "recorder should not be nil")
	defer func() { _ = r.Stop() }()

	httpClient := &http.Client{Transport: r}
	client := NewClient(WithHTTPClient(httpClient))
	ctx := context.Background()
	bars, err := client.History(ctx, "AAPL", market.HistoryQuery{Period: market.Period1Mo})
	assert.NoError(t, err, "History should not error")
	assert.NotEmpty(t, bars, "bars should not be empty")
	assert.Greater(t, bars[len(bars)-1].Close, 0.0, "last close should be positive")
}
