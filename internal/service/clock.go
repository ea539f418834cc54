package service

import (
	"time"
)

// Clock 注入式时钟，连续打卡的日期边界测试依赖它
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

var SystemClock Clock = systemClock{}

// TruncateToUTCDate 统一按UTC取日历日零点，避免时区导致的跨日重复计数
func TruncateToUTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
