package services

import (
	"math"
	"sort"
	"time"

	"winter-arc/internal/database"
	"winter-arc/internal/utils"
)

// analytics.go - чистые функции статистики поверх снимка истории

// CountCompleted считает выполненные привычки записи. Единственный
// предикат выполненности для всех подсчетов: голый true и объект
// с completed=true считаются одинаково, остальное — ноль.
func CountCompleted(record database.DayRecord) int {
	completed := 0
	for _, entry := range record.Habits {
		if entry.Done() {
			completed++
		}
	}
	return completed
}

// DayOfArc номер текущего дня арка, ограничен диапазоном 1..90
func DayOfArc(today, start time.Time) int {
	day := utils.DaysBetween(start, today) + 1
	if day < 1 {
		day = 1
	}
	if day > database.ArcTotalDays {
		day = database.ArcTotalDays
	}
	return day
}

// CurrentStreak длина серии идеальных дней, считая назад от самой
// свежей записи. День без единой привычки серию обрывает.
func CurrentStreak(history database.History) int {
	dates := sortedDates(history)

	streak := 0
	for i := len(dates) - 1; i >= 0; i-- {
		record := history[dates[i]]
		total := len(record.Habits)
		if total == 0 || CountCompleted(record) != total {
			break
		}
		streak++
	}
	return streak
}

// AggregateStats сводная статистика по всей истории
func AggregateStats(history database.History) database.ArcStats {
	stats := database.ArcStats{
		TotalDays: len(history),
		Streak:    CurrentStreak(history),
	}

	totalCompleted := 0
	totalPossible := 0
	for _, record := range history {
		completed := CountCompleted(record)
		total := len(record.Habits)

		if total > 0 && completed == total {
			stats.PerfectDays++
		}
		totalCompleted += completed
		totalPossible += total
	}

	if totalPossible > 0 {
		stats.AvgCompletionPercent = int(math.Round(float64(totalCompleted) / float64(totalPossible) * 100))
	}

	return stats
}

// Badges бейджи за текущий день
func Badges(completed, total int) []string {
	var badges []string

	if completed == 0 {
		return badges
	}
	if completed >= (total+1)/2 {
		badges = append(badges, "⭐ Half Way")
	}
	if completed == total && total > 0 {
		badges = append(badges, "🔥 Perfect Day")
	}

	return badges
}

func sortedDates(history database.History) []string {
	dates := make([]string, 0, len(history))
	for date := range history {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// DaySummary строка дневного прогресса для сводок и отчетов
type DaySummary struct {
	Date      string
	Completed int
	Total     int
}

func (s DaySummary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
}

// AnalyticsService статистика для бота поверх текущей истории
type AnalyticsService struct {
	tracker *TrackerService
	clock   Clock
}

func NewAnalyticsService(tracker *TrackerService, clock Clock) *AnalyticsService {
	return &AnalyticsService{
		tracker: tracker,
		clock:   clock,
	}
}

func (as *AnalyticsService) Stats() database.ArcStats {
	return AggregateStats(as.tracker.History())
}

// LastDays дневные сводки за последние n календарных дней, включая дни
// без записей
func (as *AnalyticsService) LastDays(n int) []DaySummary {
	history := as.tracker.History()
	today := as.clock.Now()

	summaries := make([]DaySummary, 0, n)
	for offset := n - 1; offset >= 0; offset-- {
		date := utils.FormatDate(today.AddDate(0, 0, -offset))
		record := history[date]
		summaries = append(summaries, DaySummary{
			Date:      date,
			Completed: CountCompleted(record),
			Total:     len(record.Habits),
		})
	}
	return summaries
}

// AllDays дневные сводки по всем записанным датам в хронологическом порядке
func (as *AnalyticsService) AllDays() []DaySummary {
	history := as.tracker.History()

	summaries := make([]DaySummary, 0, len(history))
	for _, date := range sortedDates(history) {
		record := history[date]
		summaries = append(summaries, DaySummary{
			Date:      date,
			Completed: CountCompleted(record),
			Total:     len(record.Habits),
		})
	}
	return summaries
}
