package services

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-arc/internal/database"
)

func TestBuildReport_Format(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	tracker := sm.Tracker
	today := tracker.Today()

	states := allStates(sm, false)
	states["wakeup"] = true
	states["leetcode"] = true
	require.True(t, tracker.SaveNow(today, states, "07:00", ""))

	report := sm.Report.BuildReport()

	assert.True(t, strings.HasPrefix(report, "WINTER ARC PROGRESS REPORT"))
	assert.Contains(t, report, "Total Days Tracked: 1")
	assert.Contains(t, report, "Perfect Days: 0")
	assert.Contains(t, report, "Average Completion: 25%")
	assert.Contains(t, report, "Current Streak: 0")
	// Строка дневного прогресса: "{date}: {completed}/{total} habits ({pct}%)"
	assert.Contains(t, report, today+": 2/8 habits (25%)")
}

func TestBuildReport_EmptyHistory(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	report := sm.Report.BuildReport()
	assert.Contains(t, report, "Total Days Tracked: 0")
	assert.Contains(t, report, "Average Completion: 0%")
}

func TestBuildBackup_RoundTrip(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	tracker := sm.Tracker
	today := tracker.Today()
	require.True(t, tracker.SaveNow(today, allStates(sm, true), "07:00", "заметка"))

	data, err := sm.Report.BuildBackup()
	require.NoError(t, err)

	var backup database.Backup
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, BackupVersion, backup.Version)
	assert.NotEmpty(t, backup.Timestamp)
	require.Contains(t, backup.Data, today)
	assert.Equal(t, "заметка", backup.Data[today].Notes)
}

func TestReportFileNames(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	today := sm.Tracker.Today()
	assert.Equal(t, "winter-arc-report-"+today+".txt", sm.Report.ReportFileName())
	assert.Equal(t, "winter-arc-backup-"+today+".json", sm.Report.BackupFileName())
}
