package telegram

import (
	"fmt"
	"strings"

	"winter-arc/internal/database"
	"winter-arc/internal/services"
	"winter-arc/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handlers.go - обработчики команд Telegram бота

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	message := fmt.Sprintf(`❄️ <b>Winter Arc - Трекер привычек</b>

🦇 %s, ваш арк уже идет!

Доступные команды:
/today - чек-лист на сегодня
/day - номер дня арка
/stats - статистика и стрик
/week - сводка за 7 дней
/note - записать заметку дня
/wake [ЧЧ:ММ] - время подъёма
/save - сохранить день сейчас
/habits - каталог привычек
/export - текстовый отчет
/backup - резервная копия
/theme - переключить тему
/clear - очистить историю
/user - сменить пользователя
/help - справка`, b.services.UserName())

	b.SendMessageOrLogError(message)
	b.SendTodayChecklistOrLogError()
}

func (b *Bot) promptUsername() {
	b.awaiting = awaitUsername
	b.SendMessageOrLogError("🦇 Как вас зовут? Введите имя (минимум 2 символа), чтобы начать свой Winter Arc")
}

func (b *Bot) handleUsernameInput(text string) {
	if !b.services.StartSession(text) {
		// Короткое имя не сохраняется, запрашиваем заново
		b.SendMessageOrLogError("⚠️ Имя должно быть не короче 2 символов. Попробуйте еще раз")
		return
	}

	b.awaiting = awaitNothing
	b.services.Tracker.EnsureStartDate()
	b.SendMessageOrLogError(fmt.Sprintf("✅ Добро пожаловать, <b>%s</b>!", b.services.UserName()))
	b.SendTodayChecklistOrLogError()
}

func (b *Bot) handleToday(msg *tgbotapi.Message) {
	b.SendTodayChecklistOrLogError()
}

func (b *Bot) handleDay(msg *tgbotapi.Message) {
	tracker := b.services.Tracker
	day := services.DayOfArc(tracker.Now(), tracker.StartDate())

	if day >= database.ArcTotalDays {
		b.SendMessageOrLogError(fmt.Sprintf("🎉 <b>Арк завершен! День %d из %d</b>", database.ArcTotalDays, database.ArcTotalDays))
		return
	}

	b.SendMessageOrLogError(fmt.Sprintf(
		"❄️ <b>День %d из %d</b>\n⏰ До нового дня: %s",
		day, database.ArcTotalDays,
		utils.FormatUntilMidnight(tracker.Now()),
	))
}

func (b *Bot) handleStats(msg *tgbotapi.Message) {
	stats := b.services.Analytics.Stats()

	record := b.services.Tracker.LoadDay(b.services.Tracker.Today())
	completed := services.CountCompleted(record)
	total := len(record.Habits)

	var message strings.Builder
	message.WriteString("📊 <b>Статистика Winter Arc</b>\n\n")
	message.WriteString(fmt.Sprintf("📆 Дней с записями: %d\n", stats.TotalDays))
	message.WriteString(fmt.Sprintf("💯 Идеальных дней: %d\n", stats.PerfectDays))
	message.WriteString(fmt.Sprintf("📈 Средний прогресс: %d%%\n", stats.AvgCompletionPercent))
	message.WriteString(fmt.Sprintf("🔥 Текущий стрик: %d\n", stats.Streak))

	if badges := services.Badges(completed, total); len(badges) > 0 {
		message.WriteString("\n🏅 Сегодня: " + strings.Join(badges, " · "))
	}

	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleWeek(msg *tgbotapi.Message) {
	days := b.services.Analytics.LastDays(7)

	var message strings.Builder
	message.WriteString("📅 <b>Последние 7 дней</b>\n\n")
	for _, day := range days {
		if day.Total == 0 {
			message.WriteString(fmt.Sprintf("▫️ %s: нет записей\n", day.Date))
			continue
		}
		message.WriteString(fmt.Sprintf(
			"%s %s: %d/%d (%d%%)\n",
			utils.StatusEmoji(day.Completed == day.Total), day.Date,
			day.Completed, day.Total, day.Percent(),
		))
	}

	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleNotePrompt(msg *tgbotapi.Message) {
	b.awaiting = awaitNote
	b.SendMessageOrLogError("📝 Напишите заметку дня следующим сообщением")
}

// handleNoteInput сохраняет заметку через дебаунс: серия правок подряд
// схлопнется в одну запись
func (b *Bot) handleNoteInput(text string) {
	b.awaiting = awaitNothing

	tracker := b.services.Tracker
	today := tracker.Today()
	record := tracker.LoadDay(today)

	states, wakeTime := currentStates(b.services.Habit.Load(), record)
	tracker.ScheduleSave(today, states, wakeTime, text)

	b.SendMessageOrLogError("📝 Заметка записана")
}

// handleSave явное сохранение дня в обход дебаунса
func (b *Bot) handleSave(msg *tgbotapi.Message) {
	tracker := b.services.Tracker
	today := tracker.Today()
	record := tracker.LoadDay(today)

	states, wakeTime := currentStates(b.services.Habit.Load(), record)
	if tracker.SaveNow(today, states, wakeTime, record.Notes) {
		b.SendMessageOrLogError("💾 День сохранен")
	}
}

func (b *Bot) handleWakeTime(msg *tgbotapi.Message) {
	value := commandArg(msg.Text, "/wake")
	if value == "" {
		b.SendMessageOrLogError("❌ Формат: /wake [ЧЧ:ММ], например /wake 06:30")
		return
	}

	coerced := utils.NormalizeWakeupTime(value)
	if coerced != value {
		b.SendMessageOrLogError(fmt.Sprintf(
			"⚠️ Время подъёма должно быть между 04:00 и 10:00. Записано %s", coerced,
		))
	}

	tracker := b.services.Tracker
	today := tracker.Today()
	record := tracker.LoadDay(today)

	states, _ := currentStates(b.services.Habit.Load(), record)
	if tracker.SaveNow(today, states, coerced, record.Notes) {
		b.SendMessageOrLogError(fmt.Sprintf("⏰ Время подъёма: %s", coerced))
	}
}

func (b *Bot) handleHabits(msg *tgbotapi.Message) {
	catalog := b.services.Habit.Load()

	var message strings.Builder
	message.WriteString("📋 <b>Каталог привычек</b>\n\n")
	for _, habit := range catalog {
		message.WriteString(fmt.Sprintf("%s <b>%s</b> — <code>%s</code>\n", habit.Icon, habit.Label, habit.ID))
	}
	message.WriteString("\nДобавить: /addhabit [иконка] [название]\n")
	message.WriteString("Удалить: /delhabit [id]\n")
	message.WriteString(fmt.Sprintf("Иконки: %s", strings.Join(utils.HabitIconOptions(), " ")))

	b.SendMessageOrLogError(message.String())
}

func (b *Bot) handleAddHabit(msg *tgbotapi.Message) {
	parts := strings.SplitN(commandArg(msg.Text, "/addhabit"), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		b.SendMessageOrLogError("❌ Формат: /addhabit [иконка] [название]")
		return
	}

	icon := parts[0]
	if !utils.IsKnownHabitIcon(icon) {
		icon = "📝"
	}

	habit, ok := b.services.Habit.Add(icon, strings.TrimSpace(parts[1]))
	if !ok {
		b.SendMessageOrLogError("❌ Не удалось сохранить привычку")
		return
	}

	b.SendMessageOrLogError(fmt.Sprintf("✅ Привычка добавлена: %s %s", habit.Icon, habit.Label))
	b.SendTodayChecklistOrLogError()
}

// handleRemoveHabitPrompt запрашивает подтверждение удаления
func (b *Bot) handleRemoveHabitPrompt(msg *tgbotapi.Message) {
	id := commandArg(msg.Text, "/delhabit")
	if id == "" {
		b.SendMessageOrLogError("❌ Формат: /delhabit [id]. Список: /habits")
		return
	}

	habit, found := b.services.Habit.Find(id)
	if !found {
		b.SendMessageOrLogError("❌ Привычка с таким id не найдена. Список: /habits")
		return
	}

	confirm := tgbotapi.NewMessage(b.chatID, fmt.Sprintf(
		"🗑 Удалить привычку %s <b>%s</b>?\nИстория прошлых дней останется без изменений.",
		habit.Icon, habit.Label,
	))
	confirm.ParseMode = "HTML"
	confirm.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить", "delhabit_yes_"+id),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "cancel"),
		),
	)
	if _, err := b.bot.Send(confirm); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) handleRemoveHabitConfirmed(data string, messageID int) {
	id := strings.TrimPrefix(data, "delhabit_yes_")

	b.safeDeleteMessage(messageID)

	if !b.services.Habit.Remove(id) {
		b.SendMessageOrLogError("❌ Не удалось удалить привычку")
		return
	}

	b.SendMessageOrLogError("🗑 Привычка удалена")
	b.SendTodayChecklistOrLogError()
}

func (b *Bot) handleExport(msg *tgbotapi.Message) {
	report := b.services.Report.BuildReport()
	name := b.services.Report.ReportFileName()

	if err := b.SendDocument(name, []byte(report), "📄 Отчет о прогрессе"); err != nil {
		b.SendMessageOrLogError("❌ Ошибка отправки отчета")
	}
}

func (b *Bot) handleBackup(msg *tgbotapi.Message) {
	data, err := b.services.Report.BuildBackup()
	if err != nil {
		b.SendMessageOrLogError("❌ Ошибка сборки резервной копии")
		return
	}

	name := b.services.Report.BackupFileName()
	if err := b.SendDocument(name, data, "💾 Резервная копия истории"); err != nil {
		b.SendMessageOrLogError("❌ Ошибка отправки резервной копии")
	}
}

func (b *Bot) handleTheme(msg *tgbotapi.Message) {
	theme := b.services.Tracker.ToggleTheme()
	emoji := "🌙"
	if theme == "light" {
		emoji = "☀️"
	}
	b.SendMessageOrLogError(fmt.Sprintf("%s Тема: %s", emoji, theme))
}

func (b *Bot) handleClearPrompt(msg *tgbotapi.Message) {
	confirm := tgbotapi.NewMessage(b.chatID,
		"⚠️ Удалить <b>всю</b> историю? Дата начала арка сохранится.\nЭто действие необратимо.")
	confirm.ParseMode = "HTML"
	confirm.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить всё", "clear_yes"),
			tgbotapi.NewInlineKeyboardButtonData("Отмена", "cancel"),
		),
	)
	if _, err := b.bot.Send(confirm); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) handleClearConfirmed(messageID int) {
	b.safeDeleteMessage(messageID)
	b.services.Tracker.ClearAll()
	b.SendMessageOrLogError("🗑 История очищена. Арк продолжается с прежней даты начала")
	b.SendTodayChecklistOrLogError()
}

// handleSwitchUser сбрасывает активную сессию, данные остаются
func (b *Bot) handleSwitchUser(msg *tgbotapi.Message) {
	b.services.EndSession()
	b.promptUsername()
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) {
	message := `📖 <b>Справка</b>

/today - чек-лист с кнопками-переключателями
/day - какой сейчас день арка (1-90)
/stats - статистика: дни, идеальные дни, средний прогресс, стрик
/week - прогресс за последние 7 дней
/note - записать заметку дня
/wake 07:15 - отметить время подъёма (04:00-10:00)
/save - сохранить день немедленно
/habits - показать каталог привычек
/addhabit 📖 Чтение - добавить привычку
/delhabit [id] - удалить привычку (с подтверждением)
/export - текстовый отчет о прогрессе
/backup - JSON-копия всей истории
/theme - переключить тему (light/dark)
/clear - очистить историю (дата начала останется)
/user - сменить пользователя`

	b.SendMessageOrLogError(message)
}

// currentStates превращает запись дня в состояния переключателей для
// сохранения: привычка без записи считается невыполненной
func currentStates(catalog []database.HabitDefinition, record database.DayRecord) (map[string]bool, string) {
	states := make(map[string]bool, len(catalog))
	wakeTime := utils.DefaultWakeupTime
	for _, habit := range catalog {
		entry := record.Habits[habit.ID]
		states[habit.ID] = entry.Done()
		if habit.ID == database.WakeupHabitID && entry.Time != "" {
			wakeTime = entry.Time
		}
	}
	return states, wakeTime
}
