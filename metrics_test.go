package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := openMetrics(":memory:", "test-salt")
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	m := newTestMetrics(t)

	h := m.hashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, m.hashIP("203.0.113.7"))
	assert.NotEqual(t, h, m.hashIP("203.0.113.8"))
	assert.NotContains(t, h, "203")
}

func TestStatsCountVisitsAndSwitches(t *testing.T) {
	m := newTestMetrics(t)
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.TrackVisit("10.0.0.1", "ua", "/"))
	require.NoError(t, m.TrackVisit("10.0.0.1", "ua", "/"))
	require.NoError(t, m.TrackVisit("10.0.0.2", "ua", "/api/portfolio"))

	m.now = func() time.Time { return now.Add(-3 * 24 * time.Hour) }
	require.NoError(t, m.TrackVisit("10.0.0.3", "ua", "/"))
	m.now = func() time.Time { return now.Add(-30 * 24 * time.Hour) }
	require.NoError(t, m.TrackVisit("10.0.0.4", "ua", "/"))
	m.now = func() time.Time { return now }

	require.NoError(t, m.TrackSwitch("s1", Minimalist, Cyberpunk))
	require.NoError(t, m.TrackSwitch("s2", Minimalist, Cyberpunk))
	require.NoError(t, m.TrackSwitch("s2", Cyberpunk, Matrix))

	stats, err := m.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalVisitors)
	assert.Equal(t, int64(4), stats.UniqueVisitors)
	assert.Equal(t, int64(3), stats.VisitorsToday)
	assert.Equal(t, int64(4), stats.VisitorsThisWeek)
	assert.Equal(t, int64(3), stats.TotalSwitches)
	assert.Equal(t, []TemplateStat{
		{Template: Cyberpunk, Switches: 2},
		{Template: Matrix, Switches: 1},
	}, stats.TopTemplates)

	require.Len(t, stats.RecentVisitors, 5)
	assert.Equal(t, now, stats.RecentVisitors[0].Timestamp)
	assert.Equal(t, m.hashIP("10.0.0.2"), stats.RecentVisitors[0].HashedIP)
}

func TestCleanupDropsOldRecords(t *testing.T) {
	m := newTestMetrics(t)
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return now.AddDate(-2, 0, 0) }
	require.NoError(t, m.TrackVisit("10.0.0.1", "ua", "/"))
	require.NoError(t, m.TrackSwitch("s1", Minimalist, Retro))

	m.now = func() time.Time { return now }
	require.NoError(t, m.TrackVisit("10.0.0.2", "ua", "/"))

	removed, err := m.Cleanup(metricsRetention)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVisitors)
	assert.Equal(t, int64(0), stats.TotalSwitches)
}
