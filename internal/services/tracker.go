package services

import (
	"encoding/json"
	"log"
	"regexp"
	"sync"
	"time"

	"winter-arc/internal/database"
	"winter-arc/internal/utils"
)

// DebounceInterval окно склейки автоматических сохранений
const DebounceInterval = 500 * time.Millisecond

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type pendingSave struct {
	date     string
	states   map[string]bool
	wakeTime string
	notes    string
}

// TrackerService хранилище дневных записей: единственный источник
// истории для статистики и стриков
type TrackerService struct {
	store  *database.UserStore
	habits *HabitService
	clock  Clock
	sender NotificationSender

	mu            sync.Mutex
	saveTimer     *time.Timer
	pending       *pendingSave
	warnedCorrupt bool
}

func NewTrackerService(store *database.UserStore, habits *HabitService, clock Clock) *TrackerService {
	return &TrackerService{
		store:  store,
		habits: habits,
		clock:  clock,
	}
}

// SetNotificationSender подключает канал некритичных предупреждений
func (ts *TrackerService) SetNotificationSender(sender NotificationSender) {
	ts.sender = sender
}

func (ts *TrackerService) notify(text string) {
	if ts.sender == nil {
		return
	}
	if err := ts.sender.SendMessage(text); err != nil {
		log.Printf("⚠️ Ошибка отправки уведомления: %v", err)
	}
}

// Now текущее локальное время из часов сервиса
func (ts *TrackerService) Now() time.Time {
	return ts.clock.Now()
}

// Today ключ сегодняшней даты по локальному календарю — единственный
// источник "сегодня", вся логика границы дня привязана к локальной полуночи
func (ts *TrackerService) Today() string {
	return utils.FormatDate(ts.clock.Now())
}

// History возвращает полную историю. Битый JSON не роняет сессию:
// история считается пустой, пользователь предупреждается один раз.
func (ts *TrackerService) History() database.History {
	raw, ok := ts.store.Get(database.KeyHistory)
	if !ok || raw == "" {
		return database.History{}
	}

	var history database.History
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		log.Printf("❌ Ошибка разбора истории: %v", err)
		ts.mu.Lock()
		warned := ts.warnedCorrupt
		ts.warnedCorrupt = true
		ts.mu.Unlock()
		if !warned {
			ts.notify("⚠️ Не удалось прочитать историю. Начинаем с чистого листа.")
		}
		return database.History{}
	}

	return history
}

// LoadDay возвращает запись дня или пустую запись, если дня нет
func (ts *TrackerService) LoadDay(date string) database.DayRecord {
	if record, ok := ts.History()[date]; ok {
		if record.Habits == nil {
			record.Habits = map[string]database.CompletionEntry{}
		}
		return record
	}
	return database.EmptyDayRecord()
}

// SaveNow сохраняет запись дня немедленно, минуя дебаунс. Используется
// для переключения привычек и явного сохранения.
func (ts *TrackerService) SaveNow(date string, states map[string]bool, wakeTime, notes string) bool {
	ts.mu.Lock()
	if ts.saveTimer != nil {
		ts.saveTimer.Stop()
		ts.saveTimer = nil
	}
	ts.pending = nil
	ts.mu.Unlock()

	return ts.performSave(date, states, wakeTime, notes)
}

// ScheduleSave откладывает сохранение на DebounceInterval: быстрые
// последовательные правки (например, заметок) схлопываются в одну запись
func (ts *TrackerService) ScheduleSave(date string, states map[string]bool, wakeTime, notes string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.pending = &pendingSave{date: date, states: states, wakeTime: wakeTime, notes: notes}
	if ts.saveTimer != nil {
		ts.saveTimer.Stop()
	}
	ts.saveTimer = time.AfterFunc(DebounceInterval, ts.flushPending)
}

func (ts *TrackerService) flushPending() {
	ts.mu.Lock()
	pending := ts.pending
	ts.pending = nil
	ts.saveTimer = nil
	ts.mu.Unlock()

	if pending == nil {
		return
	}
	ts.performSave(pending.date, pending.states, pending.wakeTime, pending.notes)
}

// Flush досохраняет отложенную запись, вызывается при остановке приложения
func (ts *TrackerService) Flush() {
	ts.mu.Lock()
	if ts.saveTimer != nil {
		ts.saveTimer.Stop()
		ts.saveTimer = nil
	}
	ts.mu.Unlock()
	ts.flushPending()
}

// performSave собирает свежую запись из переданных состояний и целиком
// замещает предыдущую запись даты
func (ts *TrackerService) performSave(date string, states map[string]bool, wakeTime, notes string) bool {
	now := ts.clock.Now().Format(time.RFC3339)

	habits := make(map[string]database.CompletionEntry, len(states))
	for _, id := range IDs(ts.habits.Load()) {
		completed, ok := states[id]
		if !ok {
			continue
		}
		entry := database.CompletionEntry{Completed: completed, Timestamp: now}
		if id == database.WakeupHabitID {
			entry.Time = utils.NormalizeWakeupTime(wakeTime)
		}
		habits[id] = entry
	}

	history := ts.History()
	history[date] = database.DayRecord{
		Habits:      habits,
		Date:        date,
		Notes:       notes,
		LastUpdated: now,
	}

	data, err := json.Marshal(history)
	if err != nil {
		log.Printf("❌ Ошибка сериализации истории: %v", err)
		return false
	}

	if !ts.store.Set(database.KeyHistory, string(data)) {
		// Состояние в памяти не трогаем, изменение просто не сохранилось
		ts.notify("⚠️ Не удалось сохранить прогресс. Возможно, хранилище переполнено.")
		return false
	}

	return true
}

// ClearAll удаляет историю и все записи по датам, но сохраняет дату
// начала арка. Повторный вызов безопасен.
func (ts *TrackerService) ClearAll() {
	ts.mu.Lock()
	if ts.saveTimer != nil {
		ts.saveTimer.Stop()
		ts.saveTimer = nil
	}
	ts.pending = nil
	ts.warnedCorrupt = false
	ts.mu.Unlock()

	ts.store.Remove(database.KeyHistory)
	for _, key := range ts.store.Keys() {
		if key == database.KeyStartDate {
			continue
		}
		if dateKeyPattern.MatchString(key) {
			ts.store.Remove(key)
		}
	}

	log.Printf("🗑 История пользователя %s очищена", ts.store.User)
}

// EnsureStartDate проверяет дату начала арка. Дата, по которой прошло
// больше 90 дней, считается битой и отбрасывается — арк начинается заново
// с сегодняшнего дня.
func (ts *TrackerService) EnsureStartDate() time.Time {
	today := ts.clock.Now()

	if raw, ok := ts.store.Get(database.KeyStartDate); ok {
		start, err := utils.ParseDate(raw)
		if err == nil {
			if utils.DaysBetween(start, today)+1 <= database.ArcTotalDays {
				return start
			}
			log.Printf("⚠️ Обнаружена устаревшая дата начала (%s), сбрасываем", raw)
		} else {
			log.Printf("⚠️ Не удалось разобрать дату начала (%s), сбрасываем", raw)
		}
		ts.store.Remove(database.KeyStartDate)
	}

	ts.store.Set(database.KeyStartDate, utils.FormatDate(today))
	ts.notify("🦇 Добро пожаловать, " + ts.store.User + "! Ваш Winter Arc начинается сегодня!")
	return today
}

// StartDate текущая дата начала арка после всех проверок
func (ts *TrackerService) StartDate() time.Time {
	return ts.EnsureStartDate()
}

// Theme per-user настройка темы
func (ts *TrackerService) Theme() string {
	theme, ok := ts.store.Get(database.KeyTheme)
	if !ok || (theme != "light" && theme != "dark") {
		return "dark"
	}
	return theme
}

func (ts *TrackerService) ToggleTheme() string {
	theme := "dark"
	if ts.Theme() == "dark" {
		theme = "light"
	}
	ts.store.Set(database.KeyTheme, theme)
	return theme
}
