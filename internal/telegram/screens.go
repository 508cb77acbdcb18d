package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/locale"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/storage"
)

// Screen is a stable identifier of one conversational screen. The navigation
// stack stores these ids; the localized keyboard labels exist only to map an
// incoming message back to a Screen.
type Screen string

const (
	ScreenMain       Screen = "main"
	ScreenSettings   Screen = "settings"
	ScreenLanguage   Screen = "language"
	ScreenGames      Screen = "games"
	ScreenAddGame    Screen = "add_game"
	ScreenSetEnglish Screen = "set_en"
	ScreenSetPersian Screen = "set_fa"
)

// nonHistory screens never land on the navigation stack: Return should skip
// over language switches and the add-game prompt.
var nonHistory = map[Screen]bool{
	ScreenAddGame:    true,
	ScreenSetEnglish: true,
	ScreenSetPersian: true,
}

// screenLabels ties every screen to the label key that opens it.
var screenLabels = map[Screen]locale.Key{
	ScreenMain:       locale.LabelMenu,
	ScreenSettings:   locale.LabelSettings,
	ScreenLanguage:   locale.LabelChangeLanguage,
	ScreenGames:      locale.LabelGames,
	ScreenAddGame:    locale.LabelNewGame,
	ScreenSetEnglish: locale.LabelEnglish,
	ScreenSetPersian: locale.LabelPersian,
}

// buildLabelTables precomputes the label -> screen dispatch table for every
// supported language.
func buildLabelTables() map[string]map[string]Screen {
	tables := make(map[string]map[string]Screen, len(locale.Languages()))
	for _, lang := range locale.Languages() {
		byLabel := make(map[string]Screen, len(screenLabels))
		for screen, key := range screenLabels {
			byLabel[locale.T(lang, key)] = screen
		}
		tables[lang] = byLabel
	}
	return tables
}

// render draws one screen for the user. Unknown ids fall back to the main
// menu so a stale stack entry can never wedge a user.
func (h *Handler) render(ctx context.Context, user *storage.User, screen Screen) {
	switch screen {
	case ScreenSettings:
		h.renderChoices(user, locale.MsgSelectItem, [][]string{
			{locale.T(user.Language, locale.LabelChangeLanguage)},
			{locale.T(user.Language, locale.LabelReturn)},
		})
	case ScreenLanguage:
		h.renderChoices(user, locale.MsgSelectLanguage, languageRows(user.Language))
	case ScreenGames:
		h.renderGames(ctx, user)
	case ScreenAddGame:
		h.reply(user, locale.MsgSendURL)
	case ScreenSetEnglish:
		h.setLanguage(ctx, user, locale.English, locale.MsgLangChangedEN)
	case ScreenSetPersian:
		h.setLanguage(ctx, user, locale.Persian, locale.MsgLangChangedFA)
	default:
		h.renderChoices(user, locale.MsgSelectItem, [][]string{
			{locale.T(user.Language, locale.LabelSettings), locale.T(user.Language, locale.LabelGames)},
		})
	}
}

func languageRows(lang string) [][]string {
	return [][]string{
		{locale.T(lang, locale.LabelPersian), locale.T(lang, locale.LabelEnglish)},
		{locale.T(lang, locale.LabelReturn)},
	}
}

// renderGames lists the user's saved games plus the add-game and return
// controls.
func (h *Handler) renderGames(ctx context.Context, user *storage.User) {
	games, err := h.Store.ListGames(ctx, user.ID)
	if err != nil {
		log.Printf("list games for chat %d: %v", user.ID, err)
		h.reply(user, locale.MsgTryAgain)
		return
	}

	var titles []string
	seen := make(map[string]bool)
	for _, g := range games {
		if !seen[g.Title] {
			seen[g.Title] = true
			titles = append(titles, g.Title)
		}
	}

	rows := [][]string{}
	if len(titles) > 0 {
		rows = append(rows, titles)
	}
	rows = append(rows, []string{
		locale.T(user.Language, locale.LabelNewGame),
		locale.T(user.Language, locale.LabelReturn),
	})
	h.renderChoices(user, locale.MsgSelectGame, rows)
}

// setLanguage persists the new language and confirms it, keeping the
// language keyboard up so the user can switch back.
func (h *Handler) setLanguage(ctx context.Context, user *storage.User, lang string, confirm locale.Key) {
	user.Language = lang
	if err := h.Store.PutUser(ctx, user); err != nil {
		log.Printf("save language for chat %d: %v", user.ID, err)
	}
	h.renderChoices(user, confirm, languageRows(lang))
}

// renderChoices sends a localized prompt with a one-time reply keyboard.
func (h *Handler) renderChoices(user *storage.User, prompt locale.Key, rows [][]string) {
	kbRows := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		kbRows = append(kbRows, buttons)
	}
	keyboard := tgbotapi.NewReplyKeyboard(kbRows...)
	keyboard.OneTimeKeyboard = true

	msg := tgbotapi.NewMessage(user.ID, locale.T(user.Language, prompt))
	msg.ReplyMarkup = keyboard
	sendMessage(h.Bot, msg)
}

func (h *Handler) reply(user *storage.User, key locale.Key) {
	sendMessage(h.Bot, tgbotapi.NewMessage(user.ID, locale.T(user.Language, key)))
}
