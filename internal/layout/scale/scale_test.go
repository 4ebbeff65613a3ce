package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/models"
)

func TestDeriveExplicitRatioWins(t *testing.T) {
	walls := []models.Wall{
		{StartX: 0, EndX: 300, OriginalLengthPx: 1000},
		{StartX: 0, EndX: 10, PxPerMeter: 50, OriginalLengthPx: 7},
		{StartX: 0, EndX: 10, PxPerMeter: 80},
	}

	got, ok := Derive(walls)
	require.True(t, ok)
	assert.Equal(t, 50.0, got)
}

func TestDeriveFromOriginalLength(t *testing.T) {
	// 1000px in the source tool is 10m, now drawn 720px long.
	walls := []models.Wall{
		{StartX: 0, EndX: 0},
		{StartX: 40, StartY: 100, EndX: 760, EndY: 100, OriginalLengthPx: 1000},
	}

	got, ok := Derive(walls)
	require.True(t, ok)
	assert.InDelta(t, 72.0, got, 1e-9)
}

func TestDeriveFallsBackToLength(t *testing.T) {
	got, ok := Derive([]models.Wall{{StartX: 0, EndX: 100, Length: 200}})
	require.True(t, ok)
	assert.InDelta(t, 50.0, got, 1e-9)
}

func TestDeriveInconclusive(t *testing.T) {
	_, ok := Derive([]models.Wall{{StartX: 0, EndX: 100}})
	assert.False(t, ok)

	_, ok = Derive(nil)
	assert.False(t, ok)

	_, ok = Derive([]models.Wall{{StartX: 5, EndX: 5, OriginalLengthPx: 100}})
	assert.False(t, ok, "zero-length wall gives no ratio")
}

func TestResolvePrecedence(t *testing.T) {
	assert.Equal(t, 72.0, Resolve(72, true, 60, 40))
	assert.Equal(t, 60.0, Resolve(0, false, 60, 40))
	assert.Equal(t, 40.0, Resolve(0, false, DefaultPxPerMeter, 40))
	assert.Equal(t, DefaultPxPerMeter, Resolve(0, false, 0, 0))
}

func TestInfo(t *testing.T) {
	assert.Nil(t, Info(nil, 0, 0))

	info := Info([]models.Wall{{StartX: 10, StartY: 20, EndX: 110, EndY: 20, PxPerMeter: 33}}, 0, 0)
	require.NotNil(t, info)
	assert.Equal(t, 33.0, info.PxPerMeter)
	assert.Equal(t, models.Rect{X: 10, Y: 20, Width: 100, Height: 0}, *info.Bounds)

	info = Info([]models.Wall{{StartX: 0, EndX: 10}}, 64, 0)
	assert.Equal(t, 64.0, info.PxPerMeter, "cached value survives inconclusive walls")
}
