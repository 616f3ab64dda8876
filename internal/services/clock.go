package services

import "time"

// Clock абстракция времени: все сравнения "сегодня" идут через один
// источник, в тестах его можно зафиксировать
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
