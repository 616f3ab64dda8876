package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	"winter-arc/internal/database"
	"winter-arc/internal/services"
	"winter-arc/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Режимы ожидания текстового ввода
const (
	awaitNothing  = ""
	awaitUsername = "username"
	awaitNote     = "note"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	services *services.ServiceManager
	handlers map[string]func(*tgbotapi.Message)

	awaiting string
}

func NewBot(token string, chatID int64, serviceManager *services.ServiceManager) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %v", err)
	}

	bot := &Bot{
		bot:      botAPI,
		chatID:   chatID,
		services: serviceManager,
		handlers: make(map[string]func(*tgbotapi.Message)),
	}

	bot.registerHandlers()
	log.Printf("🤖 Бот инициализирован: %s", botAPI.Self.UserName)
	return bot, nil
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/today"] = b.handleToday
	b.handlers["/day"] = b.handleDay
	b.handlers["/stats"] = b.handleStats
	b.handlers["/week"] = b.handleWeek
	b.handlers["/note"] = b.handleNotePrompt
	b.handlers["/save"] = b.handleSave
	b.handlers["/habits"] = b.handleHabits
	b.handlers["/export"] = b.handleExport
	b.handlers["/backup"] = b.handleBackup
	b.handlers["/theme"] = b.handleTheme
	b.handlers["/clear"] = b.handleClearPrompt
	b.handlers["/user"] = b.handleSwitchUser
	b.handlers["/help"] = b.handleHelp
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.bot.Send(msg)
	return err
}

// SendDocument отправляет файл (отчет или резервную копию)
func (b *Bot) SendDocument(name string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = caption
	_, err := b.bot.Send(doc)
	return err
}

// SendTodayChecklist отправляет свежий чек-лист на сегодня
func (b *Bot) SendTodayChecklist() error {
	if !b.services.HasUser() {
		return nil
	}

	text, keyboard := b.buildChecklist()
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	msg.ReplyMarkup = keyboard
	_, err := b.bot.Send(msg)
	return err
}

// buildChecklist собирает текст чек-листа и клавиатуру переключателей
func (b *Bot) buildChecklist() (string, tgbotapi.InlineKeyboardMarkup) {
	tracker := b.services.Tracker
	today := tracker.Today()
	record := tracker.LoadDay(today)
	catalog := b.services.Habit.Load()

	start := tracker.StartDate()
	day := services.DayOfArc(tracker.Now(), start)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📅 <b>Чек-лист на %s</b>\n", today))
	text.WriteString(fmt.Sprintf("❄️ День %d из %d\n\n", day, database.ArcTotalDays))

	completed := 0
	for _, habit := range catalog {
		entry := record.Habits[habit.ID]
		if entry.Done() {
			completed++
		}
		line := fmt.Sprintf("%s %s <b>%s</b>", utils.StatusEmoji(entry.Done()), habit.Icon, habit.Label)
		if habit.ID == database.WakeupHabitID {
			wake := entry.Time
			if wake == "" {
				wake = utils.DefaultWakeupTime
			}
			line += fmt.Sprintf(" (⏰ %s)", wake)
		}
		text.WriteString(line + "\n")
	}

	text.WriteString(fmt.Sprintf("\n✅ Выполнено: %d/%d\n", completed, len(catalog)))
	if badges := services.Badges(completed, len(catalog)); len(badges) > 0 {
		text.WriteString("🏅 " + strings.Join(badges, " · ") + "\n")
	}
	if record.Notes != "" {
		text.WriteString(fmt.Sprintf("\n📝 <i>%s</i>\n", record.Notes))
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, habit := range catalog {
		entry := record.Habits[habit.ID]
		label := fmt.Sprintf("%s %s %s", utils.StatusEmoji(entry.Done()), habit.Icon, habit.Label)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "toggle_"+habit.ID),
		))
	}

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) GetUsername() string {
	return b.bot.Self.UserName
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		b.SendMessageOrLogError("⛔ Доступ запрещен")
		return
	}

	b.handleMessage(update.Message)
}

// handleMessage обрабатывает текстовые сообщения
func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := msg.Text
	if text == "" {
		return
	}

	// Регистрация обязательна до любых команд
	if !b.services.HasUser() {
		if strings.HasPrefix(text, "/") {
			b.promptUsername()
			return
		}
		b.handleUsernameInput(text)
		return
	}

	if b.awaiting == awaitNote && !strings.HasPrefix(text, "/") {
		b.handleNoteInput(text)
		return
	}

	switch {
	case matchesCommand(text, "/wake"):
		b.handleWakeTime(msg)
	case matchesCommand(text, "/addhabit"):
		b.handleAddHabit(msg)
	case matchesCommand(text, "/delhabit"):
		b.handleRemoveHabitPrompt(msg)
	default:
		if strings.HasPrefix(text, "/") {
			parts := strings.Fields(text)
			command := parts[0]

			if handler, exists := b.handlers[command]; exists {
				handler(msg)
			} else {
				b.SendMessageOrLogError("❌ Неизвестная команда. Используйте /help")
			}
		}
	}
}

// matchesCommand совпадение с командой: голая или с аргументами.
// "/wake" и "/wake 06:30" подходят, "/wakeup" — нет.
func matchesCommand(text, command string) bool {
	return text == command || strings.HasPrefix(text, command+" ")
}

// commandArg аргументы команды без имени самой команды
func commandArg(text, command string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, command))
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	defer func(bot *tgbotapi.BotAPI, c tgbotapi.Chattable) {
		_, err := bot.Request(c)
		if err != nil {
			log.Printf("⚠️ Ошибка подтверждения callback: %v", err)
		}
	}(b.bot, tgbotapi.NewCallback(callback.ID, "✅"))

	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		return
	}
	if !b.services.HasUser() {
		return
	}

	data := callback.Data
	log.Printf("Received callback: %s", data)

	switch {
	case strings.HasPrefix(data, "toggle_"):
		b.handleToggleHabit(data, callback.Message.MessageID)
	case strings.HasPrefix(data, "delhabit_yes_"):
		b.handleRemoveHabitConfirmed(data, callback.Message.MessageID)
	case data == "clear_yes":
		b.handleClearConfirmed(callback.Message.MessageID)
	case data == "cancel":
		b.safeDeleteMessage(callback.Message.MessageID)
	}
}

// handleToggleHabit переключает привычку и сохраняет день немедленно,
// минуя дебаунс
func (b *Bot) handleToggleHabit(data string, messageID int) {
	habitID := strings.TrimPrefix(data, "toggle_")

	tracker := b.services.Tracker
	today := tracker.Today()
	record := tracker.LoadDay(today)
	catalog := b.services.Habit.Load()

	states, wakeTime := currentStates(catalog, record)
	if _, known := states[habitID]; !known {
		b.SendMessageOrLogError("❌ Привычка не найдена в каталоге")
		return
	}
	states[habitID] = !states[habitID]

	if !tracker.SaveNow(today, states, wakeTime, record.Notes) {
		return
	}

	b.refreshChecklist(messageID)
}

// refreshChecklist перерисовывает чек-лист на месте
func (b *Bot) refreshChecklist(messageID int) {
	text, keyboard := b.buildChecklist()
	edit := tgbotapi.NewEditMessageTextAndMarkup(b.chatID, messageID, text, keyboard)
	edit.ParseMode = "HTML"
	if _, err := b.bot.Send(edit); err != nil {
		log.Printf("⚠️ Ошибка обновления чек-листа: %v", err)
	}
}

// safeDeleteMessage вспомогательная функция для безопасного удаления сообщений
func (b *Bot) safeDeleteMessage(messageID int) {
	deleteConfig := tgbotapi.NewDeleteMessage(b.chatID, messageID)
	if _, err := b.bot.Request(deleteConfig); err != nil {
		log.Printf("⚠️ Ошибка при удалении сообщения %d: %v", messageID, err)
	}
}
