package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tipsplitter/internal/calculator"
	"github.com/mmynk/tipsplitter/internal/metrics"
	"github.com/mmynk/tipsplitter/internal/models"
	"github.com/mmynk/tipsplitter/internal/session"
)

func evenSnapshot() Snapshot {
	in := models.EvenSplitInput{Bill: 100, TipPercent: 15, NumPeople: 2}
	return EvenSplitSnapshot(in, calculator.ComputeEvenSplit(in), models.CurrencyUSD)
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("export did not finish")
		return nil
	}
}

func TestRender_ProducesPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, evenSnapshot()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	b := img.Bounds()
	assert.Positive(t, b.Dx())
	assert.Equal(t, 0, b.Dx()%scale)
	assert.Equal(t, (2*padding+lineHeight*9)*scale, b.Dy())
}

func TestEvenSplitSnapshot(t *testing.T) {
	snap := evenSnapshot()

	assert.Equal(t, "Bill Calculator", snap.Title)
	require.Len(t, snap.Lines, 7)
	assert.Equal(t, Line{"Total Bill", "115.00 USD"}, snap.Lines[4])
	assert.Equal(t, Line{"Total Per Person", "57.50 USD"}, snap.Lines[6])
}

func TestItemizedSnapshot(t *testing.T) {
	people := []models.Person{
		{ID: "a", Name: "Ana", Items: []models.Item{{ID: "1", Price: "40"}}},
		{ID: "b", Items: []models.Item{{ID: "2", Price: "60"}}},
	}
	totals := calculator.ComputeItemized(people, 10, "105")
	snap := ItemizedSnapshot(totals, 10, models.CurrencyEUR)

	assert.Equal(t, Line{"Ana", "44.00 EUR"}, snap.Lines[0])
	assert.Equal(t, Line{"Person 2", "66.00 EUR"}, snap.Lines[1])
	assert.Equal(t, Line{"Difference", "5.00 EUR"}, snap.Lines[len(snap.Lines)-1])
}

func TestSummarySnapshot(t *testing.T) {
	snap := SummarySnapshot(session.Summary{
		SessionID: "abc",
		Entries: []session.ParticipantEntry{
			{ParticipantID: "abc", Subtotal: 22},
			{ParticipantID: "guest", Subtotal: 33},
		},
		GrandTotal:            55,
		PerParticipantAverage: 27.5,
	}, models.CurrencyUSD)

	assert.Contains(t, snap.Title, "abc")
	assert.Contains(t, snap.Lines, Line{"Total Amount", "55.00 USD"})
	assert.Contains(t, snap.Lines, Line{"Per Person", "27.50 USD"})
}

func TestAsync_WritesFile(t *testing.T) {
	m := metrics.New(nil)
	path := filepath.Join(t.TempDir(), "out", "tip-calculation.png")

	err := wait(t, Async(context.Background(), path, evenSnapshot(), nil, m))
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(metrics.ResultOK)))
}

func TestAsync_ReportsFailure(t *testing.T) {
	m := metrics.New(nil)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// A regular file where a directory is needed.
	err := wait(t, Async(context.Background(), filepath.Join(blocker, "out.png"), evenSnapshot(), nil, m))
	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(metrics.ResultError)))
}

func TestAsync_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := wait(t, Async(ctx, filepath.Join(t.TempDir(), "x.png"), evenSnapshot(), nil, nil))
	assert.ErrorIs(t, err, context.Canceled)
}
