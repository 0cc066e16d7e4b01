package agenda

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Friday afternoon, mid-March.
var friday = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func TestResolveShortcutHoje(t *testing.T) {
	r, ok := ResolveShortcut(ShortcutHoje, friday)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), r.Start)
	assert.True(t, r.Contains(friday))
	assert.True(t, r.Contains(time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)))
}

func TestResolveShortcutAmanha(t *testing.T) {
	r, ok := ResolveShortcut(ShortcutAmanha, friday)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), r.Start)
	assert.False(t, r.Contains(friday))
	assert.True(t, r.Contains(time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)))
}

func TestResolveShortcutEstaSemana(t *testing.T) {
	r, ok := ResolveShortcut(ShortcutEstaSemana, friday)
	require.True(t, ok)

	// Weeks start on Monday: March 11 through March 17.
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Monday, r.Start.Weekday())
	assert.True(t, r.Contains(friday))
	assert.True(t, r.Contains(time.Date(2024, 3, 17, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)))
}

func TestResolveShortcutEstaSemanaOnMonday(t *testing.T) {
	monday := time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)
	r, ok := ResolveShortcut(ShortcutEstaSemana, monday)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), r.Start)
}

func TestResolveShortcutEstaSemanaOnSunday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC)
	r, ok := ResolveShortcut(ShortcutEstaSemana, sunday)
	require.True(t, ok)
	// Sunday belongs to the week that started the previous Monday.
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), r.Start)
	assert.True(t, r.Contains(sunday))
}

func TestResolveShortcutProximaSemana(t *testing.T) {
	r, ok := ResolveShortcut(ShortcutProximaSemana, friday)
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Monday, r.Start.Weekday())
	assert.False(t, r.Contains(friday))
	assert.True(t, r.Contains(time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)))
}

func TestResolveShortcutWeeksAreAdjacent(t *testing.T) {
	this, ok := ResolveShortcut(ShortcutEstaSemana, friday)
	require.True(t, ok)
	next, ok := ResolveShortcut(ShortcutProximaSemana, friday)
	require.True(t, ok)

	assert.Equal(t, this.End.Add(time.Nanosecond), next.Start)
}

func TestResolveShortcutUnknown(t *testing.T) {
	_, ok := ResolveShortcut("ontem", friday)
	assert.False(t, ok)
	_, ok = ResolveShortcut("", friday)
	assert.False(t, ok)
}
