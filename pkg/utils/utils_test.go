// Package utils 工具函数测试
package utils

import (
	"testing"
	"time"
)

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		t        time.Time
		expected int
	}{
		{"同一时刻", now, 0},
		{"不足一天", now.Add(-23 * time.Hour), 0},
		{"恰好一天", now.Add(-24 * time.Hour), 1},
		{"七天半向下取整", now.Add(-180 * time.Hour), 7},
		{"未来时间", now.Add(time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysSince(tt.t, now); got != tt.expected {
				t.Errorf("DaysSince() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{0, "0.00 元"},
		{100, "1.00 元"},
		{12345, "123.45 元"},
	}

	for _, tt := range tests {
		if got := FormatBalance(tt.cents); got != tt.expected {
			t.Errorf("FormatBalance(%d) = %q, want %q", tt.cents, got, tt.expected)
		}
	}
}

func TestFormatTraffic(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{1 << 30, "1.00 GB"},
		{512 << 20, "512.00 MB"},
		{3 << 29, "1.50 GB"},
	}

	for _, tt := range tests {
		if got := FormatTraffic(tt.bytes); got != tt.expected {
			t.Errorf("FormatTraffic(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}

func TestFormatRemainTime(t *testing.T) {
	tests := []struct {
		name        string
		d           time.Duration
		wantHours   int
		wantMinutes int
	}{
		{"零时长", 0, 0, 0},
		{"负时长", -time.Hour, 0, 0},
		{"整小时", 2 * time.Hour, 2, 0},
		{"剩余分钟向上取整", 2*time.Hour + 30*time.Second, 2, 1},
		{"不足一小时", 45 * time.Minute, 0, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, minutes := FormatRemainTime(tt.d)
			if hours != tt.wantHours || minutes != tt.wantMinutes {
				t.Errorf("FormatRemainTime() = (%d, %d), want (%d, %d)",
					hours, minutes, tt.wantHours, tt.wantMinutes)
			}
		})
	}
}

func TestMaskCode(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ABCD1234EFGH", "ABCD****EFGH"},
		{"SHORT", "SHORT"},
		{"12345678", "12345678"},
	}

	for _, tt := range tests {
		if got := MaskCode(tt.code); got != tt.expected {
			t.Errorf("MaskCode(%q) = %q, want %q", tt.code, got, tt.expected)
		}
	}
}
