package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckfarm/internal/apperr"
)

func periodContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestPeriodFromQueryCoversWholeEndDay(t *testing.T) {
	start, end, err := periodFromQuery(periodContext("/api/reports/sales?start=2026-08-01&end=2026-08-31"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), start)

	// A sale stamped anywhere inside the last second of the end day
	// still belongs to the period.
	lastMoment := time.Date(2026, 8, 31, 23, 59, 59, int(500*time.Millisecond), time.UTC)
	assert.False(t, lastMoment.After(end))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), end)
}

func TestPeriodFromQueryRejectsBadInput(t *testing.T) {
	for _, target := range []string{
		"/api/reports/sales",
		"/api/reports/sales?start=2026-08-01",
		"/api/reports/sales?start=not-a-date&end=2026-08-31",
		"/api/reports/sales?start=2026-08-01&end=31/08/2026",
	} {
		_, _, err := periodFromQuery(periodContext(target))
		require.Error(t, err, target)
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err), target)
	}
}
