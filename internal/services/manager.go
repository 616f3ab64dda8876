package services

import (
	"log"
	"strings"
	"sync"

	"winter-arc/internal/database"
)

// MinUserNameLen минимальная длина имени пользователя
const MinUserNameLen = 2

// ServiceManager собирает сервисы активного пользователя. Все данные
// лежат под namespace имени, поэтому при смене пользователя сервисы
// пересоздаются поверх нового UserStore.
//
// Задания cron живут в своих горутинах и читают сервисы параллельно с
// обработкой /user в горутине бота, поэтому сборка и сброс сессии
// идут под mu; фоновый код берет сервисы через Session().
type ServiceManager struct {
	db    *database.Database
	clock Clock

	sender NotificationSender

	mu sync.RWMutex

	Habit        *HabitService
	Tracker      *TrackerService
	Analytics    *AnalyticsService
	Report       *ReportService
	Notification *NotificationService
}

func NewServiceManager(db *database.Database, clock Clock) *ServiceManager {
	sm := &ServiceManager{
		db:    db,
		clock: clock,
	}

	if user, ok := db.CurrentUser(); ok {
		sm.mu.Lock()
		sm.buildForUser(user)
		sm.mu.Unlock()
	}

	return sm
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sender = sender
	sm.Notification = NewNotificationService(sender, sm)
	if sm.Tracker != nil {
		sm.Tracker.SetNotificationSender(sender)
	}
}

// HasUser есть ли активная сессия
func (sm *ServiceManager) HasUser() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.Tracker != nil
}

// Session отдает сервисы активной сессии одним снимком: между проверкой
// HasUser и обращением к Tracker сессию может сбросить /user
func (sm *ServiceManager) Session() (*TrackerService, *AnalyticsService, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.Tracker == nil {
		return nil, nil, false
	}
	return sm.Tracker, sm.Analytics, true
}

// UserName имя активного пользователя
func (sm *ServiceManager) UserName() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if sm.Tracker == nil {
		return ""
	}
	return sm.Tracker.store.User
}

// StartSession регистрирует пользователя: имя короче 2 символов
// отклоняется и не сохраняется
func (sm *ServiceManager) StartSession(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < MinUserNameLen {
		return false
	}

	if !sm.db.SetCurrentUser(name) {
		return false
	}

	sm.mu.Lock()
	sm.buildForUser(name)
	sm.mu.Unlock()

	log.Printf("🦇 %s начал свой Winter Arc", name)
	return true
}

// EndSession сбрасывает указатель активной сессии; данные пользователя
// остаются в хранилище
func (sm *ServiceManager) EndSession() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.Tracker != nil {
		sm.Tracker.Flush()
	}
	sm.db.ClearCurrentUser()
	sm.Habit = nil
	sm.Tracker = nil
	sm.Analytics = nil
	sm.Report = nil
}

// buildForUser вызывается только под sm.mu
func (sm *ServiceManager) buildForUser(name string) {
	store := database.NewUserStore(sm.db, name)

	sm.Habit = NewHabitService(store, sm.clock)
	sm.Tracker = NewTrackerService(store, sm.Habit, sm.clock)
	sm.Analytics = NewAnalyticsService(sm.Tracker, sm.clock)
	sm.Report = NewReportService(sm.Tracker, sm.Analytics, sm.clock)

	if sm.sender != nil {
		sm.Tracker.SetNotificationSender(sm.sender)
	}
}
