package pomodoro

import (
	"fmt"
	"strings"
)

const (
	// DefaultMinutes はダイアログを開いたときの作業時間です。
	DefaultMinutes = 25
	MinMinutes     = 1
	MaxMinutes     = 60
)

// ClampMinutes は入力欄の文字列を分数に変換します。
// 先頭の空白と符号を読み飛ばし、続く数字だけを解釈します ("12abc" は 12)。
// 数字が無い、または 0 の場合は 1 とし、結果は [1,60] に収めます。
func ClampMinutes(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n <= MaxMinutes {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 || n == 0 || negative {
		return MinMinutes
	}
	return clamp(n)
}

func clamp(minutes int) int {
	switch {
	case minutes < MinMinutes:
		return MinMinutes
	case minutes > MaxMinutes:
		return MaxMinutes
	}
	return minutes
}

// FormatClock は残り秒数を MM:SS 形式にします。
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
