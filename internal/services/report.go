package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"winter-arc/internal/database"
	"winter-arc/internal/utils"
)

// BackupVersion версия формата резервной копии
const BackupVersion = "2.0"

// ReportService текстовый отчет о прогрессе и резервная копия истории
type ReportService struct {
	tracker   *TrackerService
	analytics *AnalyticsService
	clock     Clock
}

func NewReportService(tracker *TrackerService, analytics *AnalyticsService, clock Clock) *ReportService {
	return &ReportService{
		tracker:   tracker,
		analytics: analytics,
		clock:     clock,
	}
}

// BuildReport собирает текстовый отчет: сводная статистика и строка
// прогресса по каждой записанной дате
func (rs *ReportService) BuildReport() string {
	stats := rs.analytics.Stats()

	var report strings.Builder
	report.WriteString("WINTER ARC PROGRESS REPORT\n")
	report.WriteString(fmt.Sprintf("Generated: %s\n\n", utils.FormatDate(rs.clock.Now())))
	report.WriteString("STATISTICS:\n")
	report.WriteString(fmt.Sprintf("Total Days Tracked: %d\n", stats.TotalDays))
	report.WriteString(fmt.Sprintf("Perfect Days: %d\n", stats.PerfectDays))
	report.WriteString(fmt.Sprintf("Average Completion: %d%%\n", stats.AvgCompletionPercent))
	report.WriteString(fmt.Sprintf("Current Streak: %d\n\n", stats.Streak))
	report.WriteString("DAILY PROGRESS:\n")

	for _, day := range rs.analytics.AllDays() {
		report.WriteString(fmt.Sprintf(
			"%s: %d/%d habits (%d%%)\n",
			day.Date, day.Completed, day.Total, day.Percent(),
		))
	}

	return report.String()
}

// ReportFileName имя файла отчета с сегодняшней датой
func (rs *ReportService) ReportFileName() string {
	return fmt.Sprintf("winter-arc-report-%s.txt", utils.FormatDate(rs.clock.Now()))
}

// BuildBackup сериализует полную историю в формат резервной копии
func (rs *ReportService) BuildBackup() ([]byte, error) {
	backup := database.Backup{
		Data:      rs.tracker.History(),
		Timestamp: rs.clock.Now().Format(time.RFC3339),
		Version:   BackupVersion,
	}
	return json.MarshalIndent(backup, "", "  ")
}

func (rs *ReportService) BackupFileName() string {
	return fmt.Sprintf("winter-arc-backup-%s.json", utils.FormatDate(rs.clock.Now()))
}
