package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDayChange_SendsChecklistOnNewDate(t *testing.T) {
	sm, clock := createTestManager(t)
	sender := &stubSender{}
	sm.SetNotificationSender(sender)
	require.True(t, sm.StartSession("alice"))

	ns := sm.Notification

	// Первый вызов только запоминает дату
	ns.CheckDayChange()
	assert.Equal(t, 0, sender.checklists)

	// Та же дата — тишина
	clock.now = clock.now.Add(time.Hour)
	ns.CheckDayChange()
	assert.Equal(t, 0, sender.checklists)

	// Дата сменилась — свежий чек-лист
	clock.now = clock.now.AddDate(0, 0, 1)
	ns.CheckDayChange()
	assert.Equal(t, 1, sender.checklists)

	// Повторная проверка в тот же день ничего не шлет
	ns.CheckDayChange()
	assert.Equal(t, 1, sender.checklists)
}

func TestHandleNewDay_AfterMinuteCheckIsQuiet(t *testing.T) {
	sm, clock := createTestManager(t)
	sender := &stubSender{}
	sm.SetNotificationSender(sender)
	require.True(t, sm.StartSession("alice"))

	ns := sm.Notification
	ns.CheckDayChange()

	// Смену даты первой заметила ежеминутная проверка
	clock.now = clock.now.AddDate(0, 0, 1)
	ns.CheckDayChange()
	require.Equal(t, 1, sender.checklists)

	// Полуночное задание пришло следом и молчит
	ns.HandleNewDay()
	assert.Equal(t, 1, sender.checklists)
}

func TestNewDay_ConcurrentJobsSendSingleChecklist(t *testing.T) {
	sm, clock := createTestManager(t)
	sender := &stubSender{}
	sm.SetNotificationSender(sender)
	require.True(t, sm.StartSession("alice"))

	ns := sm.Notification
	ns.CheckDayChange()
	clock.now = clock.now.AddDate(0, 0, 1)

	// В полночь оба задания cron срабатывают в своих горутинах
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ns.CheckDayChange()
	}()
	go func() {
		defer wg.Done()
		ns.HandleNewDay()
	}()
	wg.Wait()

	assert.Equal(t, 1, sender.checklists)
}

func TestCheckDayChange_NoUserIsNoop(t *testing.T) {
	sm, _ := createTestManager(t)
	sender := &stubSender{}
	sm.SetNotificationSender(sender)

	sm.Notification.CheckDayChange()
	assert.Equal(t, 0, sender.checklists)
	assert.Empty(t, sender.messages)
}

func TestSendDailySummary_IncludesProgressAndStreak(t *testing.T) {
	sm, _ := createTestManager(t)
	sender := &stubSender{}
	sm.SetNotificationSender(sender)
	require.True(t, sm.StartSession("alice"))

	tracker := sm.Tracker
	require.True(t, tracker.SaveNow(tracker.Today(), allStates(sm, true), "07:00", ""))
	sender.messages = nil

	sm.Notification.SendDailySummary()

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "Итоги дня")
	assert.Contains(t, sender.messages[0], "8/8 (100%)")
	assert.Contains(t, sender.messages[0], "🔥 Perfect Day")
	assert.Contains(t, sender.messages[0], "Текущий стрик: 1")
}
