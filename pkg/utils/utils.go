// Package utils 工具函数
package utils

import (
	"fmt"
	"time"
)

// TimeNowCST 获取当前北京时间
func TimeNowCST() time.Time {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	return time.Now().In(loc)
}

// DaysSince 计算从 t 到 now 经过的整天数（向下取整）
func DaysSince(t time.Time, now time.Time) int {
	if now.Before(t) {
		return 0
	}
	return int(now.Sub(t).Hours() / 24)
}

// FormatBalance 格式化余额（分 -> 元）
func FormatBalance(cents int64) string {
	return fmt.Sprintf("%.2f 元", float64(cents)/100)
}

// FormatTraffic 格式化流量（字节 -> GB/MB）
func FormatTraffic(bytes int64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb >= 1 {
		return fmt.Sprintf("%.2f GB", gb)
	}
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

// FormatRemainTime 格式化剩余等待时间（整小时 + 剩余分钟）
func FormatRemainTime(d time.Duration) (hours int, minutes int) {
	if d <= 0 {
		return 0, 0
	}
	secs := int(d.Seconds())
	hours = secs / 3600
	rem := secs % 3600
	minutes = (rem + 59) / 60
	if rem == 0 {
		minutes = 0
	}
	return hours, minutes
}

// MaskCode 打码兑换码（保留前后各 4 位）
func MaskCode(code string) string {
	runes := []rune(code)
	if len(runes) <= 8 {
		return code
	}
	return string(runes[:4]) + "****" + string(runes[len(runes)-4:])
}
