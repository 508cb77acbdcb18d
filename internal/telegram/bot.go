package telegram

import (
	"context"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/gamee"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/storage"
)

type Bot struct {
	bot     *tgbotapi.BotAPI
	handler *Handler
}

func NewBot() (*Bot, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using system variables")
	}

	botToken := os.Getenv("TELEGRAM_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_TOKEN is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is not set")
	}

	store, err := storage.New(dsn)
	if err != nil {
		return nil, err
	}

	err = store.Ping()
	if err != nil {
		log.Fatalf("cannot ping DB: %v", err)
	} else {
		log.Println("✅ Connected to Postgres")
	}

	client := gamee.NewClient()
	if apiURL := os.Getenv("GAMEE_API_URL"); apiURL != "" {
		client.APIURL = apiURL
	}
	if salt := os.Getenv("GAMEE_SALT"); salt != "" {
		client.Salt = salt
	}

	handler := NewHandler(botAPI, store, client)

	return &Bot{
		bot:     botAPI,
		handler: handler,
	}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	log.Println("Bot started!")

	ctx := context.Background()
	for update := range updates {
		update := update
		// Chats are independent of each other; the handler serializes
		// events within one chat.
		go b.handleUpdate(ctx, update)
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		msg := update.Message
		ev := Event{ChatID: msg.Chat.ID, Text: msg.Text}
		if msg.From != nil {
			ev.Username = msg.From.UserName
		}
		if msg.Command() == "start" {
			b.handler.HandleStart(ctx, ev)
			return
		}
		b.handler.HandleMessage(ctx, ev)
	case update.CallbackQuery != nil:
		callback := update.CallbackQuery
		// Button clicks travel the same path as typed labels.
		b.handler.HandleMessage(ctx, Event{
			ChatID:   callback.Message.Chat.ID,
			Username: callback.From.UserName,
			Text:     callback.Data,
		})
		// Answer callback query so the loading icon on the button disappears
		if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
			log.Printf("Failed to answer callback: %v", err)
		}
	}
}
