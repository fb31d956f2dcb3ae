package pomodoro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimer(t *testing.T) (*Timer, *[]int) {
	t.Helper()
	var completed []int
	timer := NewTimer(DefaultMinutes, func(todoID int) {
		completed = append(completed, todoID)
	})
	next := 0
	timer.Rand = func(n int) int {
		v := next % n
		next++
		return v
	}
	return timer, &completed
}

func tickN(timer *Timer, n int) []Effects {
	out := make([]Effects, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, timer.Tick())
	}
	return out
}

func TestClampMinutes(t *testing.T) {
	cases := map[string]int{
		"0":     1,
		"":      1,
		"-5":    1,
		"90":    60,
		"25":    25,
		"60":    60,
		"1":     1,
		"abc":   1,
		"12abc": 12,
		"  7":   7,
		"+3":    3,
		"3.9":   3,
		"-0":    1,
		"99999999999999999999": 60,
	}
	for in, want := range cases {
		assert.Equal(t, want, ClampMinutes(in), "input %q", in)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "00:59", FormatClock(59))
	assert.Equal(t, "01:05", FormatClock(65))
	assert.Equal(t, "60:00", FormatClock(3600))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "00:00", FormatClock(-3))
}

func TestTimer_FullSession(t *testing.T) {
	timer, completed := newTestTimer(t)

	timer.Open(42)
	assert.Equal(t, Configuring, timer.State())
	assert.Equal(t, 1500, timer.Remaining())
	assert.Equal(t, "25:00", timer.Clock())

	timer.Toggle()
	require.Equal(t, Running, timer.State())

	effects := tickN(timer, 1500)
	last := effects[len(effects)-1]

	assert.Equal(t, Completed, timer.State())
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, []int{42}, *completed)
	assert.True(t, last.Celebrate)
	assert.True(t, last.ScheduleClose)
	assert.InDelta(t, 1.0, timer.Progress(), 1e-9)

	t.Run("extra ticks do nothing", func(t *testing.T) {
		for _, e := range tickN(timer, 10) {
			assert.Equal(t, Effects{}, e)
		}
		assert.Equal(t, 0, timer.Remaining())
		assert.Len(t, *completed, 1)
	})

	t.Run("auto close resets to idle", func(t *testing.T) {
		e := timer.Finish()
		assert.True(t, e.Close)
		assert.Equal(t, Idle, timer.State())
		assert.Equal(t, 0, timer.TodoID())
		assert.Equal(t, 1500, timer.Remaining())
	})
}

func TestTimer_CompletionFiresOncePerSession(t *testing.T) {
	timer, completed := newTestTimer(t)

	for _, id := range []int{1, 2} {
		timer.Open(id)
		_, err := timer.SetMinutes(1)
		require.NoError(t, err)
		timer.Toggle()
		tickN(timer, 61)
		timer.Finish()
	}
	assert.Equal(t, []int{1, 2}, *completed)
}

func TestTimer_PauseResume(t *testing.T) {
	timer, _ := newTestTimer(t)
	timer.Open(1)
	timer.Toggle()
	tickN(timer, 10)

	timer.Toggle()
	assert.Equal(t, Paused, timer.State())
	tickN(timer, 30)
	assert.Equal(t, 1490, timer.Remaining(), "paused timer does not count down")

	timer.Toggle()
	assert.Equal(t, Running, timer.State())
	tickN(timer, 5)
	assert.Equal(t, 1485, timer.Remaining())
}

func TestTimer_SetDuration(t *testing.T) {
	timer, _ := newTestTimer(t)

	t.Run("closed dialog", func(t *testing.T) {
		_, err := timer.SetDuration("10")
		assert.ErrorIs(t, err, ErrNotOpen)
	})

	timer.Open(1)

	t.Run("configuring", func(t *testing.T) {
		m, err := timer.SetDuration("90")
		require.NoError(t, err)
		assert.Equal(t, 60, m)
		assert.Equal(t, 3600, timer.Remaining())
	})

	t.Run("locked while running", func(t *testing.T) {
		timer.Toggle()
		tickN(timer, 3)
		m, err := timer.SetDuration("5")
		assert.ErrorIs(t, err, ErrDurationLocked)
		assert.Equal(t, 60, m)
		assert.True(t, timer.DurationLocked())
		assert.Equal(t, 3597, timer.Remaining())
	})

	t.Run("paused resets remaining", func(t *testing.T) {
		timer.Toggle()
		require.False(t, timer.DurationLocked())
		m, err := timer.SetDuration("abc")
		require.NoError(t, err)
		assert.Equal(t, 1, m)
		assert.Equal(t, 60, timer.Remaining())
		assert.Equal(t, Configuring, timer.State())
	})
}

func TestTimer_EarlyClose(t *testing.T) {
	t.Run("confirm discards the session", func(t *testing.T) {
		timer, completed := newTestTimer(t)
		timer.Open(7)
		_, err := timer.SetDuration("10")
		require.NoError(t, err)
		timer.Toggle()
		tickN(timer, 100)

		e := timer.RequestClose()
		assert.False(t, e.Close)
		assert.Equal(t, ConfirmingEarlyClose, timer.State())

		e = timer.ConfirmClose()
		assert.True(t, e.Close)
		assert.Equal(t, Idle, timer.State())
		assert.Equal(t, 25, timer.Minutes())
		assert.Empty(t, *completed)
	})

	t.Run("cancel keeps running", func(t *testing.T) {
		timer, _ := newTestTimer(t)
		timer.Open(7)
		timer.Toggle()
		tickN(timer, 100)

		timer.RequestClose()
		timer.CancelClose()
		assert.Equal(t, Running, timer.State())
		assert.Equal(t, 1400, timer.Remaining())
	})

	t.Run("countdown continues while confirming", func(t *testing.T) {
		timer, completed := newTestTimer(t)
		timer.Open(7)
		_, err := timer.SetMinutes(1)
		require.NoError(t, err)
		timer.Toggle()
		tickN(timer, 50)

		timer.RequestClose()
		effects := tickN(timer, 10)
		assert.True(t, effects[9].Celebrate)
		assert.Equal(t, Completed, timer.State())
		assert.Equal(t, []int{7}, *completed)

		assert.Equal(t, Effects{}, timer.ConfirmClose())
		assert.Equal(t, Completed, timer.State())
	})

	t.Run("not running closes immediately", func(t *testing.T) {
		timer, _ := newTestTimer(t)
		timer.Open(7)
		_, err := timer.SetMinutes(5)
		require.NoError(t, err)

		e := timer.RequestClose()
		assert.True(t, e.Close)
		assert.Equal(t, Idle, timer.State())
		assert.Equal(t, 25, timer.Minutes())
	})

	t.Run("paused closes immediately", func(t *testing.T) {
		timer, _ := newTestTimer(t)
		timer.Open(7)
		timer.Toggle()
		timer.Toggle()

		assert.True(t, timer.RequestClose().Close)
	})
}

func TestTimer_QuoteRotation(t *testing.T) {
	timer, _ := newTestTimer(t)
	timer.Open(1)
	first, visible := timer.Quote()
	require.True(t, visible)
	assert.Equal(t, Quotes[0], first)

	timer.Toggle()
	effects := tickN(timer, QuoteInterval)
	for _, e := range effects[:QuoteInterval-1] {
		assert.False(t, e.ScheduleFadeIn)
	}
	fade := effects[QuoteInterval-1]
	require.True(t, fade.ScheduleFadeIn)

	_, visible = timer.Quote()
	assert.False(t, visible, "quote fades out")

	timer.FadeInQuote(fade.FadeGeneration)
	q, visible := timer.Quote()
	assert.True(t, visible)
	assert.Equal(t, Quotes[1], q)

	t.Run("stale fade-in is ignored", func(t *testing.T) {
		tickN(timer, QuoteInterval)
		timer.FadeInQuote(fade.FadeGeneration)
		_, visible := timer.Quote()
		assert.False(t, visible)
	})

	t.Run("pause cancels pending fade", func(t *testing.T) {
		gen := timer.Generation()
		timer.Toggle()
		q, visible := timer.Quote()
		assert.True(t, visible)
		assert.Equal(t, Quotes[1], q)

		timer.FadeInQuote(gen)
		q, _ = timer.Quote()
		assert.Equal(t, Quotes[1], q, "pending swap was discarded")
	})

	t.Run("resume re-arms the window", func(t *testing.T) {
		timer.Toggle()
		effects := tickN(timer, QuoteInterval-1)
		for _, e := range effects {
			assert.False(t, e.ScheduleFadeIn)
		}
		assert.True(t, timer.Tick().ScheduleFadeIn)
	})

	t.Run("no rotation while paused", func(t *testing.T) {
		timer.Toggle()
		assert.Equal(t, Effects{}, timer.RotateQuote())
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "confirming_early_close", ConfirmingEarlyClose.String())
	assert.Equal(t, "unknown", State(99).String())
}
