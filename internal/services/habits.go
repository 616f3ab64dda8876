package services

import (
	"encoding/json"
	"fmt"
	"log"

	"winter-arc/internal/database"
)

// HabitService управляет каталогом привычек пользователя
type HabitService struct {
	store *database.UserStore
	clock Clock
}

func NewHabitService(store *database.UserStore, clock Clock) *HabitService {
	return &HabitService{
		store: store,
		clock: clock,
	}
}

// Load возвращает пользовательский каталог, а при его отсутствии —
// стандартный набор привычек
func (hs *HabitService) Load() []database.HabitDefinition {
	raw, ok := hs.store.Get(database.KeyCustomHabitsData)
	if !ok || raw == "" {
		return database.DefaultHabits()
	}

	var catalog []database.HabitDefinition
	if err := json.Unmarshal([]byte(raw), &catalog); err != nil {
		log.Printf("⚠️ Ошибка разбора каталога привычек: %v", err)
		return database.DefaultHabits()
	}
	if len(catalog) == 0 {
		return database.DefaultHabits()
	}

	return catalog
}

// Add добавляет привычку в конец каталога и сохраняет его.
// ID берется из текущего времени, что гарантирует уникальность в рамках сессии.
func (hs *HabitService) Add(icon, label string) (database.HabitDefinition, bool) {
	habit := database.HabitDefinition{
		ID:    fmt.Sprintf("custom_%d", hs.clock.Now().UnixMilli()),
		Icon:  icon,
		Label: label,
	}

	catalog := append(hs.Load(), habit)
	return habit, hs.Persist(catalog)
}

// Remove удаляет привычку из каталога. Исторические записи с этим id
// не трогаются и продолжают учитываться в статистике как есть.
func (hs *HabitService) Remove(id string) bool {
	catalog := hs.Load()
	filtered := make([]database.HabitDefinition, 0, len(catalog))
	found := false
	for _, habit := range catalog {
		if habit.ID == id {
			found = true
			continue
		}
		filtered = append(filtered, habit)
	}
	if !found {
		return false
	}
	return hs.Persist(filtered)
}

// Persist записывает каталог и производный список id. Список id —
// кэш для быстрой проверки, источником правды остается каталог.
func (hs *HabitService) Persist(catalog []database.HabitDefinition) bool {
	data, err := json.Marshal(catalog)
	if err != nil {
		log.Printf("❌ Ошибка сериализации каталога: %v", err)
		return false
	}

	ids, err := json.Marshal(IDs(catalog))
	if err != nil {
		log.Printf("❌ Ошибка сериализации списка id: %v", err)
		return false
	}

	if !hs.store.Set(database.KeyCustomHabitsData, string(data)) {
		return false
	}
	return hs.store.Set(database.KeyCustomHabits, string(ids))
}

// Find ищет привычку в каталоге по id
func (hs *HabitService) Find(id string) (database.HabitDefinition, bool) {
	for _, habit := range hs.Load() {
		if habit.ID == id {
			return habit, true
		}
	}
	return database.HabitDefinition{}, false
}

// IDs возвращает упорядоченный список id каталога
func IDs(catalog []database.HabitDefinition) []string {
	ids := make([]string, 0, len(catalog))
	for _, habit := range catalog {
		ids = append(ids, habit.ID)
	}
	return ids
}
