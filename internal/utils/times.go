package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultWakeupTime = "06:00"
)

// IsValidWakeupTime проверяет время подъёма: допустимы часы с 4 до 10
func IsValidWakeupTime(value string) bool {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return false
	}
	return t.Hour() >= 4 && t.Hour() <= 10
}

// NormalizeWakeupTime приводит недопустимое время к значению по умолчанию.
// Невалидный ввод не отклоняется, а заменяется на 06:00 перед сохранением.
func NormalizeWakeupTime(value string) string {
	if IsValidWakeupTime(value) {
		return value
	}
	return DefaultWakeupTime
}

// FormatDate дата в ключ хранилища, локальный календарь
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает ключ даты в локальной зоне
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.Local)
}

// DaysBetween количество полных календарных дней от a до b
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.Local)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.Local)
	return int(b.Sub(a).Hours() / 24)
}

// UntilMidnight сколько осталось до локальной полуночи
func UntilMidnight(now time.Time) time.Duration {
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	return tomorrow.Sub(now)
}

// FormatUntilMidnight строка вида "3ч 27м" для отображения в сводке
func FormatUntilMidnight(now time.Time) string {
	left := UntilMidnight(now)
	hours := int(left.Hours())
	minutes := int(left.Minutes()) % 60
	return fmt.Sprintf("%dч %dм", hours, minutes)
}
