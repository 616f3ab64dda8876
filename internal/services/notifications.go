package services

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"winter-arc/internal/utils"
)

// NotificationSender интерфейс для отправки уведомлений
type NotificationSender interface {
	SendMessage(text string) error
	SendTodayChecklist() error
}

// NotificationService фоновые уведомления: смена дня и вечерняя сводка.
// Ежеминутная проверка и полуночное задание работают в разных
// горутинах cron, поэтому lastSeenDate под mu.
type NotificationService struct {
	sender  NotificationSender
	manager *ServiceManager

	mu           sync.Mutex
	lastSeenDate string
}

func NewNotificationService(sender NotificationSender, manager *ServiceManager) *NotificationService {
	return &NotificationService{
		sender:  sender,
		manager: manager,
	}
}

// CheckDayChange ежеминутная проверка: не сменилась ли календарная дата.
// Страхует полуночное задание на случай сна машины или сдвига часов.
func (ns *NotificationService) CheckDayChange() {
	tracker, _, ok := ns.manager.Session()
	if !ok {
		return
	}

	today := tracker.Today()

	ns.mu.Lock()
	seen := ns.lastSeenDate
	ns.lastSeenDate = today
	ns.mu.Unlock()

	if seen == "" || seen == today {
		return
	}

	log.Printf("🌅 Наступил новый день: %s", today)
	ns.startNewDay(tracker)
}

// HandleNewDay полный перезапуск состояния дня в локальную полночь.
// Если ежеминутная проверка уже заметила смену даты, повторный
// чек-лист не отправляется.
func (ns *NotificationService) HandleNewDay() {
	tracker, _, ok := ns.manager.Session()
	if !ok {
		return
	}

	today := tracker.Today()

	ns.mu.Lock()
	seen := ns.lastSeenDate
	ns.lastSeenDate = today
	ns.mu.Unlock()

	if seen == today {
		return
	}

	ns.startNewDay(tracker)
}

// startNewDay проверка даты начала арка и свежий чек-лист
func (ns *NotificationService) startNewDay(tracker *TrackerService) {
	tracker.EnsureStartDate()

	if err := ns.sender.SendTodayChecklist(); err != nil {
		log.Printf("⚠️ Ошибка отправки чек-листа: %v", err)
	}
}

// SendDailySummary отправляет итоги дня
func (ns *NotificationService) SendDailySummary() {
	tracker, analytics, ok := ns.manager.Session()
	if !ok {
		return
	}

	today := tracker.Today()
	record := tracker.LoadDay(today)

	completed := CountCompleted(record)
	total := len(record.Habits)
	percent := 0
	if total > 0 {
		percent = DaySummary{Completed: completed, Total: total}.Percent()
	}

	var message strings.Builder
	message.WriteString(fmt.Sprintf("📊 <b>Итоги дня %s</b>\n\n", today))
	message.WriteString(fmt.Sprintf("✅ Выполнено: %d/%d (%d%%)\n", completed, total, percent))

	if badges := Badges(completed, total); len(badges) > 0 {
		message.WriteString("🏅 " + strings.Join(badges, " · ") + "\n")
	}

	stats := analytics.Stats()
	message.WriteString(fmt.Sprintf("🔥 Текущий стрик: %d\n\n", stats.Streak))
	message.WriteString(fmt.Sprintf("⏰ До нового дня: %s 🌅", utils.FormatUntilMidnight(ns.manager.clock.Now())))

	if err := ns.sender.SendMessage(message.String()); err != nil {
		log.Printf("⚠️ Ошибка отправки сводки дня: %v", err)
	}
}
