package database

import "encoding/json"

// Ключи хранилища (namespace — имя текущего пользователя)
const (
	KeyCustomHabits     = "customHabits"
	KeyCustomHabitsData = "customHabitsData"
	KeyStartDate        = "winterArcStartDate"
	KeyHistory          = "winterArcHistory"
	KeyTheme            = "theme"
)

// KeyCurrentUser хранится без namespace — указатель на активную сессию
const KeyCurrentUser = "currentWinterArcUser"

// ArcTotalDays длительность одного арка в днях
const ArcTotalDays = 90

// WakeupHabitID единственная привычка с дополнительным атрибутом времени
const WakeupHabitID = "wakeup"

type HabitDefinition struct {
	ID    string `json:"id"`
	Icon  string `json:"icon"`
	Label string `json:"text"`
}

// DefaultHabits возвращает стандартный набор из 8 привычек
func DefaultHabits() []HabitDefinition {
	return []HabitDefinition{
		{ID: "wakeup", Icon: "🌅", Label: "Ранний подъём"},
		{ID: "leetcode", Icon: "💻", Label: "LeetCode"},
		{ID: "dsa", Icon: "📚", Label: "Алгоритмы и структуры данных"},
		{ID: "dev", Icon: "🛠", Label: "Разработка"},
		{ID: "workout", Icon: "🏋️", Label: "Тренировка"},
		{ID: "insta", Icon: "📵", Label: "Без соцсетей"},
		{ID: "nojunk", Icon: "🥗", Label: "Без вредной еды"},
		{ID: "selfcontrol", Icon: "🧘", Label: "Самоконтроль"},
	}
}

// CompletionEntry отметка о выполнении привычки за день.
// В истории встречаются два легаси-формата: голый bool и объект
// {completed, timestamp, time}. Оба читаются, записывается всегда объект.
type CompletionEntry struct {
	Completed bool
	Timestamp string
	Time      string // только для wakeup, "HH:MM"
}

// Done единая точка проверки выполненности для всех подсчетов
func (e CompletionEntry) Done() bool {
	return e.Completed
}

func (e *CompletionEntry) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*e = CompletionEntry{Completed: flag}
		return nil
	}

	var obj struct {
		Completed bool   `json:"completed"`
		Timestamp string `json:"timestamp"`
		Time      string `json:"time"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		// Прочие формы означают "не выполнено", ошибкой не считаются
		*e = CompletionEntry{}
		return nil
	}

	*e = CompletionEntry{Completed: obj.Completed, Timestamp: obj.Timestamp, Time: obj.Time}
	return nil
}

func (e CompletionEntry) MarshalJSON() ([]byte, error) {
	obj := struct {
		Completed bool   `json:"completed"`
		Timestamp string `json:"timestamp"`
		Time      string `json:"time,omitempty"`
	}{
		Completed: e.Completed,
		Timestamp: e.Timestamp,
		Time:      e.Time,
	}
	return json.Marshal(obj)
}

// DayRecord запись одного календарного дня
type DayRecord struct {
	Habits      map[string]CompletionEntry `json:"habits"`
	Date        string                     `json:"date,omitempty"`
	Notes       string                     `json:"notes"`
	LastUpdated string                     `json:"lastUpdated,omitempty"`
}

// EmptyDayRecord пустая запись для дней без данных
func EmptyDayRecord() DayRecord {
	return DayRecord{Habits: map[string]CompletionEntry{}, Notes: ""}
}

// History полная карта дата → запись дня, сериализуется одним блобом
type History map[string]DayRecord

type ArcStats struct {
	TotalDays            int `json:"totalDays"`
	PerfectDays          int `json:"perfectDays"`
	AvgCompletionPercent int `json:"avgCompletion"`
	Streak               int `json:"streak"`
}

// Backup формат резервной копии, совместим с версией 2.0
type Backup struct {
	Data      History `json:"data"`
	Timestamp string  `json:"timestamp"`
	Version   string  `json:"version"`
}
