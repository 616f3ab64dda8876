package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winter-arc/internal/database"
)

func TestHabitService_LoadDefaultsWhenNothingPersisted(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	catalog := sm.Habit.Load()
	assert.Equal(t, database.DefaultHabits(), catalog)
}

func TestHabitService_LoadDefaultsOnCorruptCatalog(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	store := database.NewUserStore(sm.db, "alice")
	require.True(t, store.Set(database.KeyCustomHabitsData, "[{битый"))

	assert.Equal(t, database.DefaultHabits(), sm.Habit.Load())
}

func TestHabitService_AddAppendsAndPersists(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	habit, ok := sm.Habit.Add("📖", "Чтение")
	require.True(t, ok)
	assert.Contains(t, habit.ID, "custom_")

	catalog := sm.Habit.Load()
	require.Len(t, catalog, 9)
	assert.Equal(t, habit, catalog[8])

	// Производный список id синхронизирован с каталогом
	raw, found := database.NewUserStore(sm.db, "alice").Get(database.KeyCustomHabits)
	require.True(t, found)
	assert.Contains(t, raw, habit.ID)
}

func TestHabitService_AddGeneratesUniqueIDs(t *testing.T) {
	sm, clock := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	first, ok := sm.Habit.Add("📖", "Чтение")
	require.True(t, ok)

	clock.now = clock.now.Add(time.Millisecond)
	second, ok := sm.Habit.Add("🎵", "Музыка")
	require.True(t, ok)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestHabitService_RemoveDeletesFromCatalogOnly(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	tracker := sm.Tracker
	today := tracker.Today()
	require.True(t, tracker.SaveNow(today, allStates(sm, true), "07:00", ""))

	require.True(t, sm.Habit.Remove("leetcode"))

	ids := IDs(sm.Habit.Load())
	assert.NotContains(t, ids, "leetcode")
	assert.Len(t, ids, 7)

	// Историческая запись с удаленным id остается и учитывается как есть
	record := tracker.LoadDay(today)
	assert.True(t, record.Habits["leetcode"].Done())
	assert.Equal(t, 8, CountCompleted(record))
}

func TestHabitService_RemoveUnknownID(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	assert.False(t, sm.Habit.Remove("nonexistent"))
	assert.Len(t, sm.Habit.Load(), 8)
}

func TestHabitService_Find(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	habit, found := sm.Habit.Find("workout")
	require.True(t, found)
	assert.Equal(t, "Тренировка", habit.Label)

	_, found = sm.Habit.Find("nope")
	assert.False(t, found)
}

func TestHabitService_PersistedCatalogSurvivesReload(t *testing.T) {
	sm, _ := createTestManager(t)
	require.True(t, sm.StartSession("alice"))

	_, ok := sm.Habit.Add("💧", "Вода")
	require.True(t, ok)

	// Пересоздание сервисов — как перезапуск приложения
	sm.EndSession()
	require.True(t, sm.StartSession("alice"))

	catalog := sm.Habit.Load()
	require.Len(t, catalog, 9)
	assert.Equal(t, "Вода", catalog[8].Label)
}
