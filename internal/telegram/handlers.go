package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/gamee"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/locale"
	"github.com/mohamadkhalaj/Gamee-Hacker/internal/storage"
)

// MessageSender is the slice of the Telegram API the handlers need.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Store is the user/game persistence boundary the engine drives.
type Store interface {
	GetUser(ctx context.Context, id int64) (*storage.User, error)
	PutUser(ctx context.Context, u *storage.User) error
	GetGame(ctx context.Context, userID int64, url string) (*storage.GameRecord, error)
	PutGame(ctx context.Context, g *storage.GameRecord) error
	ListGames(ctx context.Context, userID int64) ([]storage.GameRecord, error)
	DeleteGame(ctx context.Context, id int64) error
}

// Submitter runs the whole scoring pipeline for one link.
type Submitter interface {
	SubmitScore(ctx context.Context, rawURL string, score, playTime int) (*gamee.Outcome, error)
}

// Event is one inbound text message or button click.
type Event struct {
	ChatID   int64
	Username string
	Text     string
}

type Handler struct {
	Bot   MessageSender
	Store Store
	Gamee Submitter

	// labels is the per-language label -> screen dispatch table.
	labels map[string]map[string]Screen
	// playTime produces the simulated play duration for a submission.
	playTime func() int
	// locks serializes state mutations per chat. Telegram may deliver
	// updates for the same chat back to back and the user row is a plain
	// read-modify-write.
	locks sync.Map
}

func NewHandler(bot MessageSender, store Store, submitter Submitter) *Handler {
	return &Handler{
		Bot:      bot,
		Store:    store,
		Gamee:    submitter,
		labels:   buildLabelTables(),
		playTime: func() int { return rand.Intn(991) + 10 },
	}
}

var (
	urlRe   = regexp.MustCompile(`(http|https)://(www\.)?[a-zA-Z0-9@:%._\+~#?&/=]{2,256}\.[a-z]{2,6}\b[-a-zA-Z0-9@:%._\+~#?&/=]*`)
	scoreRe = regexp.MustCompile(`^[0-9]+$`)
	adminRe = regexp.MustCompile(`^admin\s+([0-9]+)$`)
)

func isURL(s string) bool   { return urlRe.MatchString(s) }
func isScore(s string) bool { return scoreRe.MatchString(strings.TrimSpace(s)) }

// HandleStart - /start: make sure the user exists and show the main menu.
func (h *Handler) HandleStart(ctx context.Context, ev Event) {
	mu := h.chatLock(ev.ChatID)
	mu.Lock()
	defer mu.Unlock()

	user, err := h.ensureUser(ctx, ev)
	if err != nil {
		log.Printf("create user for chat %d: %v", ev.ChatID, err)
		return
	}
	h.render(ctx, user, ScreenMain)
}

// HandleMessage classifies one inbound event and drives the matching
// transition. Priority order: menu label, Return, game URL, score, admin
// command, saved game title, echo.
func (h *Handler) HandleMessage(ctx context.Context, ev Event) {
	mu := h.chatLock(ev.ChatID)
	mu.Lock()
	defer mu.Unlock()

	user, err := h.ensureUser(ctx, ev)
	if err != nil {
		log.Printf("load user for chat %d: %v", ev.ChatID, err)
		return
	}

	text := ev.Text
	switch {
	case h.labels[user.Language][text] != "":
		h.navigate(ctx, user, h.labels[user.Language][text])
	case text == locale.T(user.Language, locale.LabelReturn):
		h.goBack(ctx, user)
	case isURL(text):
		user.LastURL = text
		if err := h.Store.PutUser(ctx, user); err != nil {
			log.Printf("save last url for chat %d: %v", user.ID, err)
		}
		h.reply(user, locale.MsgSendScore)
	case isScore(text):
		h.startHacking(ctx, user, text)
	case adminRe.MatchString(text):
		targetID, _ := strconv.ParseInt(adminRe.FindStringSubmatch(text)[1], 10, 64)
		h.grantAdmin(ctx, user, targetID)
	default:
		if game := h.findGameByTitle(ctx, user, text); game != nil {
			h.viewGame(ctx, user, game)
			return
		}
		sendMessage(h.Bot, tgbotapi.NewMessage(user.ID, fmt.Sprintf("❌❗️ '%s'", text)))
	}
}

// ensureUser loads the user's state, registering a fresh profile on first
// contact.
func (h *Handler) ensureUser(ctx context.Context, ev Event) (*storage.User, error) {
	user, err := h.Store.GetUser(ctx, ev.ChatID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}
	user = &storage.User{
		ID:       ev.ChatID,
		Username: ev.Username,
		Language: locale.English,
		Stack:    []string{string(ScreenMain)},
	}
	return user, h.Store.PutUser(ctx, user)
}

// navigate pushes the screen onto the history (unless it is a non-history
// screen or already on top) and renders it.
func (h *Handler) navigate(ctx context.Context, user *storage.User, screen Screen) {
	if !nonHistory[screen] && h.top(user) != screen {
		user.Stack = append(user.Stack, string(screen))
		if err := h.Store.PutUser(ctx, user); err != nil {
			log.Printf("save stack for chat %d: %v", user.ID, err)
		}
	}
	h.render(ctx, user, screen)
}

func (h *Handler) top(user *storage.User) Screen {
	if len(user.Stack) == 0 {
		return ""
	}
	return Screen(user.Stack[len(user.Stack)-1])
}

// goBack discards the current screen and re-opens the one beneath it. The
// stack never drops below one entry: Return from the main menu just renders
// the main menu again.
func (h *Handler) goBack(ctx context.Context, user *storage.User) {
	if len(user.Stack) < 2 {
		if len(user.Stack) == 0 {
			user.Stack = []string{string(ScreenMain)}
			if err := h.Store.PutUser(ctx, user); err != nil {
				log.Printf("save stack for chat %d: %v", user.ID, err)
			}
		}
		h.render(ctx, user, ScreenMain)
		return
	}

	target := Screen(user.Stack[len(user.Stack)-2])
	user.Stack = user.Stack[:len(user.Stack)-2]
	if len(user.Stack) == 0 {
		user.Stack = []string{string(ScreenMain)}
	}
	if err := h.Store.PutUser(ctx, user); err != nil {
		log.Printf("save stack for chat %d: %v", user.ID, err)
	}
	h.render(ctx, user, target)
}

// startHacking runs the scoring pipeline against the pending url and upserts
// the game record.
func (h *Handler) startHacking(ctx context.Context, user *storage.User, text string) {
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		sendMessage(h.Bot, tgbotapi.NewMessage(user.ID, fmt.Sprintf("❌❗️ '%s'", text)))
		return
	}
	if user.LastURL == "" {
		h.reply(user, locale.MsgSendURL)
		return
	}

	h.reply(user, locale.MsgWait)

	out, err := h.Gamee.SubmitScore(ctx, user.LastURL, score, h.playTime())
	if errors.Is(err, gamee.ErrInvalidURL) {
		h.reply(user, locale.MsgSendURL)
		return
	}
	if err != nil {
		log.Printf("submit score for chat %d: %v", user.ID, err)
		h.reply(user, locale.MsgTryAgain)
		return
	}
	if out.Banned {
		h.reply(user, locale.MsgBanned)
		return
	}

	game, err := h.upsertGame(ctx, user, out)
	if err != nil {
		log.Printf("save game for chat %d: %v", user.ID, err)
		h.reply(user, locale.MsgTryAgain)
		return
	}
	h.sendGameStatus(user, game)
}

// upsertGame keeps exactly one record per (user, url). A fresh submission
// only overwrites the stored record when its score is not lower.
func (h *Handler) upsertGame(ctx context.Context, user *storage.User, out *gamee.Outcome) (*storage.GameRecord, error) {
	game, err := h.Store.GetGame(ctx, user.ID, user.LastURL)
	if err != nil {
		return nil, err
	}
	if game == nil {
		game = &storage.GameRecord{
			UserID:   user.ID,
			URL:      user.LastURL,
			Title:    out.Title,
			PhotoURL: out.Image,
			Score:    out.Record,
			Rank:     out.Rank,
		}
		return game, h.Store.PutGame(ctx, game)
	}
	if out.Record >= game.Score {
		game.Title = out.Title
		game.PhotoURL = out.Image
		game.Score = out.Record
		game.Rank = out.Rank
		if err := h.Store.PutGame(ctx, game); err != nil {
			return nil, err
		}
	}
	return game, nil
}

// sendGameStatus sends the game's status card: cover photo plus the
// name/record/rank caption.
func (h *Handler) sendGameStatus(user *storage.User, game *storage.GameRecord) {
	lang := user.Language
	caption := fmt.Sprintf("🎳 %s%s\n🏆 %s%d\n%s%s%d",
		locale.T(lang, locale.MsgGameName), game.Title,
		locale.T(lang, locale.MsgYourRecord), game.Score,
		rankEmoji(game.Rank), locale.T(lang, locale.MsgYourRank), game.Rank,
	)
	photo := tgbotapi.NewPhoto(user.ID, tgbotapi.FileURL(game.PhotoURL))
	photo.Caption = caption
	sendMessage(h.Bot, photo)
}

// grantAdmin handles "admin <id>". Only admins may grant; the target profile
// is created when it does not exist yet, so the command is idempotent either
// way.
func (h *Handler) grantAdmin(ctx context.Context, user *storage.User, targetID int64) {
	lang := user.Language
	if !user.IsAdmin {
		h.reply(user, locale.MsgForbidden)
		return
	}

	target, err := h.Store.GetUser(ctx, targetID)
	if err != nil {
		log.Printf("load admin target %d: %v", targetID, err)
		h.reply(user, locale.MsgTryAgain)
		return
	}
	if target != nil && target.IsAdmin {
		sendMessage(h.Bot, tgbotapi.NewMessage(user.ID, fmt.Sprintf(locale.T(lang, locale.MsgAdminRepeated), targetID)))
		return
	}
	if target == nil {
		target = &storage.User{
			ID:       targetID,
			Language: locale.English,
			Stack:    []string{string(ScreenMain)},
		}
	}
	target.IsAdmin = true
	if err := h.Store.PutUser(ctx, target); err != nil {
		log.Printf("grant admin to %d: %v", targetID, err)
		h.reply(user, locale.MsgTryAgain)
		return
	}
	sendMessage(h.Bot, tgbotapi.NewMessage(user.ID, fmt.Sprintf(locale.T(lang, locale.MsgAdminGranted), targetID)))
}

// findGameByTitle matches the message against the user's saved game titles.
// The latest record wins when titles repeat.
func (h *Handler) findGameByTitle(ctx context.Context, user *storage.User, title string) *storage.GameRecord {
	games, err := h.Store.ListGames(ctx, user.ID)
	if err != nil {
		log.Printf("list games for chat %d: %v", user.ID, err)
		return nil
	}
	var found *storage.GameRecord
	for i := range games {
		if games[i].Title == title {
			found = &games[i]
		}
	}
	return found
}

// viewGame re-renders a saved game's status and makes its url the pending
// one, so a bare score message re-submits against it.
func (h *Handler) viewGame(ctx context.Context, user *storage.User, game *storage.GameRecord) {
	h.sendGameStatus(user, game)
	user.LastURL = game.URL
	if err := h.Store.PutUser(ctx, user); err != nil {
		log.Printf("save last url for chat %d: %v", user.ID, err)
	}
}

func (h *Handler) chatLock(id int64) *sync.Mutex {
	mu, _ := h.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
