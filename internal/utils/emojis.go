package utils

// Вспомогательные функции для иконок привычек

// HabitIconOptions набор иконок, предлагаемых при добавлении привычки
func HabitIconOptions() []string {
	return []string{"📝", "🏃", "💧", "🥗", "🎨", "🎵", "🧘", "📖"}
}

func IsKnownHabitIcon(icon string) bool {
	for _, candidate := range HabitIconOptions() {
		if candidate == icon {
			return true
		}
	}
	return false
}

// StatusEmoji отметка выполнения в чек-листе
func StatusEmoji(completed bool) string {
	if completed {
		return "✅"
	}
	return "⬜"
}
