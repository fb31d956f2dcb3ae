// Package pomodoro はポモドーロタイマーの状態遷移を実装します。
//
// Timer は時計を持ちません。ホスト (TUI) が 1 秒ごとに Tick を呼び、
// 返された Effects に従って遅延処理やダイアログの開閉を行います。
package pomodoro

import (
	"errors"
	"math/rand/v2"
	"time"
)

// State はタイマーダイアログの状態です。
type State int

const (
	Idle State = iota
	Configuring
	Running
	Paused
	Completed
	ConfirmingEarlyClose
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Configuring:
		return "configuring"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	case ConfirmingEarlyClose:
		return "confirming_early_close"
	}
	return "unknown"
}

const (
	// QuoteInterval は一言を入れ替えるまでの実行秒数です。
	QuoteInterval = 60
	TickInterval  = time.Second
	FadeDelay     = 500 * time.Millisecond
	CloseDelay    = 2500 * time.Millisecond

	CompletedMessage = "Pomodoro completed! Todo marked as done."
)

var (
	ErrDurationLocked = errors.New("duration cannot be changed while the timer is running")
	ErrNotOpen        = errors.New("timer dialog is not open")
)

// Effects はイベント処理の結果としてホストが実行すべき副作用です。
type Effects struct {
	// ScheduleFadeIn が true なら FadeDelay 後に FadeInQuote(FadeGeneration) を呼びます。
	ScheduleFadeIn bool
	FadeGeneration int
	// Celebrate は完了演出 (紙吹雪と CompletedMessage の通知) です。
	Celebrate bool
	// ScheduleClose が true なら CloseDelay 後に Finish を呼びます。
	ScheduleClose bool
	// Close はダイアログを閉じます。
	Close bool
}

// Timer は 1 つの todo に紐づく作業セッションです。ゴルーチン安全ではありません。
type Timer struct {
	// Rand は [0,n) の乱数を返します。テストで差し替えます。
	Rand func(n int) int

	onComplete     func(todoID int)
	defaultMinutes int

	state     State
	todoID    int
	minutes   int
	remaining int
	fired     bool

	quote        int
	quoteVisible bool
	sinceRotate  int
	fadePending  bool
	generation   int
}

// NewTimer はタイマーを作ります。onComplete はセッションごとに一度だけ、
// 残り時間が 0 になった時点で呼ばれます。
func NewTimer(defaultMinutes int, onComplete func(todoID int)) *Timer {
	t := &Timer{
		Rand:           rand.IntN,
		onComplete:     onComplete,
		defaultMinutes: clamp(defaultMinutes),
	}
	t.reset()
	return t
}

func (t *Timer) State() State { return t.state }
func (t *Timer) TodoID() int { return t.todoID }
func (t *Timer) Minutes() int { return t.minutes }
func (t *Timer) Remaining() int { return t.remaining }
func (t *Timer) Clock() string { return FormatClock(t.remaining) }
func (t *Timer) Generation() int { return t.generation }
func (t *Timer) DefaultMinutes() int { return t.defaultMinutes }

// Quote は現在の一言と、表示中かどうか (フェードアウト中は false) を返します。
func (t *Timer) Quote() (Quote, bool) {
	return Quotes[t.quote], t.quoteVisible
}

// Progress は経過割合 [0,1] です。
func (t *Timer) Progress() float64 {
	total := t.minutes * 60
	if total == 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total)
}

// DurationLocked は入力欄を無効にすべきかを返します。
func (t *Timer) DurationLocked() bool {
	switch t.state {
	case Running, ConfirmingEarlyClose, Completed:
		return true
	}
	return false
}

// Open は todoID のダイアログを開きます。前のセッションは破棄されます。
func (t *Timer) Open(todoID int) Effects {
	t.reset()
	t.state = Configuring
	t.todoID = todoID
	t.quote = t.pick()
	return Effects{}
}

// SetDuration は入力欄の値を分数として設定し、残り時間を巻き戻します。
func (t *Timer) SetDuration(input string) (int, error) {
	return t.SetMinutes(ClampMinutes(input))
}

// SetMinutes は SetDuration の数値版です。範囲外の値は丸めます。
func (t *Timer) SetMinutes(minutes int) (int, error) {
	switch t.state {
	case Idle:
		return t.minutes, ErrNotOpen
	case Running, ConfirmingEarlyClose, Completed:
		return t.minutes, ErrDurationLocked
	}
	t.minutes = clamp(minutes)
	t.remaining = t.minutes * 60
	t.state = Configuring
	return t.minutes, nil
}

// Toggle は開始と一時停止を切り替えます。
func (t *Timer) Toggle() Effects {
	switch t.state {
	case Configuring, Paused:
		t.state = Running
		t.sinceRotate = 0
	case Running:
		t.state = Paused
		t.cancelFade()
	}
	return Effects{}
}

// Tick は 1 秒の経過を伝えます。確認中もカウントダウンは続きます。
func (t *Timer) Tick() Effects {
	if t.state != Running && t.state != ConfirmingEarlyClose {
		return Effects{}
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining == 0 {
		return t.complete()
	}

	t.sinceRotate++
	if t.sinceRotate >= QuoteInterval {
		return t.RotateQuote()
	}
	return Effects{}
}

// RotateQuote は一言をフェードアウトし、フェードインの予約を返します。
func (t *Timer) RotateQuote() Effects {
	if t.state != Running && t.state != ConfirmingEarlyClose {
		return Effects{}
	}
	t.sinceRotate = 0
	t.quoteVisible = false
	t.fadePending = true
	t.generation++
	return Effects{ScheduleFadeIn: true, FadeGeneration: t.generation}
}

// FadeInQuote は新しい一言を表示します。古い世代の予約は無視されます。
func (t *Timer) FadeInQuote(generation int) {
	if !t.fadePending || generation != t.generation {
		return
	}
	t.fadePending = false
	t.quote = t.pick()
	t.quoteVisible = true
}

// RequestClose は閉じる操作です。実行中なら確認状態に移ります。
func (t *Timer) RequestClose() Effects {
	switch t.state {
	case Running:
		t.state = ConfirmingEarlyClose
		return Effects{}
	case ConfirmingEarlyClose:
		return Effects{}
	}
	t.reset()
	return Effects{Close: true}
}

// ConfirmClose は途中終了を確定します。todo は完了になりません。
func (t *Timer) ConfirmClose() Effects {
	if t.state != ConfirmingEarlyClose {
		return Effects{}
	}
	t.reset()
	return Effects{Close: true}
}

// CancelClose は確認を取り消して実行を続けます。
func (t *Timer) CancelClose() Effects {
	if t.state == ConfirmingEarlyClose {
		t.state = Running
	}
	return Effects{}
}

// Finish は完了後の自動クローズです。
func (t *Timer) Finish() Effects {
	if t.state != Completed {
		return Effects{}
	}
	t.reset()
	return Effects{Close: true}
}

func (t *Timer) complete() Effects {
	t.state = Completed
	t.cancelFade()
	if !t.fired {
		t.fired = true
		if t.onComplete != nil {
			t.onComplete(t.todoID)
		}
	}
	return Effects{Celebrate: true, ScheduleClose: true}
}

func (t *Timer) cancelFade() {
	if t.fadePending {
		t.fadePending = false
		t.generation++
	}
	t.quoteVisible = true
}

func (t *Timer) reset() {
	t.cancelFade()
	t.state = Idle
	t.todoID = 0
	t.minutes = t.defaultMinutes
	t.remaining = t.minutes * 60
	t.fired = false
	t.sinceRotate = 0
}

func (t *Timer) pick() int {
	if t.Rand == nil {
		return 0
	}
	return t.Rand(len(Quotes))
}
