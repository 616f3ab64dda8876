package telegram

import "log"

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) SendTodayChecklistOrLogError() {
	if err := b.SendTodayChecklist(); err != nil {
		b.logSendError(err)
	}
}

func (b *Bot) logSendError(err error) {
	log.Printf("⚠️ Ошибка отправки сообщения: %v", err)
}
