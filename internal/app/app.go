package app

import (
	"context"
	"log"
	"time"

	"winter-arc/internal/config"
	"winter-arc/internal/database"
	"winter-arc/internal/services"
	"winter-arc/internal/telegram"

	"github.com/robfig/cron/v3"
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	cron       *cron.Cron
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config) (*Application, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	serviceManager := services.NewServiceManager(db, services.SystemClock{})
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, serviceManager)
	if err != nil {
		db.Close()
		return nil, err
	}

	serviceManager.SetNotificationSender(bot)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		cron:       cron.New(),
		cancelFunc: cancel,
		ctx:        ctx,
	}

	app.setupCronJobs()

	return app, nil
}

func (a *Application) Start() error {
	log.Println("🚀 Запуск приложения...")

	go a.bot.Start(a.ctx)

	a.cron.Start()
	time.Sleep(1 * time.Second)

	if tracker, _, ok := a.services.Session(); ok {
		tracker.EnsureStartDate()
		a.sendWelcomeMessage(tracker.Today())
	} else {
		log.Println("👤 Пользователь не зарегистрирован, ждем /start")
	}

	log.Printf("✅ Приложение запущено. Бот: @%s", a.bot.GetUsername())

	return nil
}

func (a *Application) Stop() error {
	log.Println("🛑 Остановка приложения...")

	a.cancelFunc()
	a.cron.Stop()

	// Досохраняем отложенную дебаунсом запись
	if tracker, _, ok := a.services.Session(); ok {
		tracker.Flush()
	}

	if err := a.db.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия БД: %v", err)
	}

	log.Println("✅ Приложение остановлено")
	return nil
}

func (a *Application) setupCronJobs() {
	// Ежеминутная проверка смены календарной даты
	_, err := a.cron.AddFunc("* * * * *", func() {
		a.services.Notification.CheckDayChange()
	})
	if err != nil {
		panic(err)
	}

	// Полный перезапуск состояния в локальную полночь
	_, err = a.cron.AddFunc("0 0 * * *", func() {
		a.services.Notification.HandleNewDay()
	})
	if err != nil {
		panic(err)
	}

	// Вечерняя сводка дня в 21:55
	a.cron.AddFunc("55 21 * * *", func() {
		a.services.Notification.SendDailySummary()
	})
}

func (a *Application) sendWelcomeMessage(today string) {
	message := `❄️ <b>Winter Arc</b>

Ваш трекер успешно запущен!

Сегодня: ` + today + `

Используйте команды:
/today - чек-лист на сегодня
/stats - статистика и стрик
/week - сводка за 7 дней
/note - заметка дня
/export - отчет о прогрессе
/help - справка по командам`

	if err := a.bot.SendMessage(message); err != nil {
		log.Printf("⚠️ Ошибка отправки приветствия: %v", err)
	}
}
