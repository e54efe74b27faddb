package bot

import (
	"context"
	"log"
	"strconv"
	"sync"

	"jobboard-bot/config"
	"jobboard-bot/internal/forms"
	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/moderation"
	"jobboard-bot/internal/render"
	"jobboard-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// adminState tracks a reviewer who tapped reject and owes us a reason.
type adminState struct {
	PendingPostID   string
	ChatID          int64
	ReviewMessageID int
}

type TelegramBot struct {
	api             *tgbotapi.BotAPI
	cfg             *config.Config
	localizer       *localization.Localizer
	storage         *storage.Storage
	renderer        *render.Renderer
	coordinator     *moderation.Coordinator
	resumeEngine    *forms.Engine
	vacancyEngine   *forms.Engine
	resumeSessions  *forms.SessionStore
	vacancySessions *forms.SessionStore
	adminStates     map[int64]*adminState
	adminMutex      sync.Mutex
	ctx             context.Context
}

func NewBot(
	ctx context.Context,
	cfg *config.Config,
	localizer *localization.Localizer,
	store *storage.Storage,
	renderer *render.Renderer,
) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	bot := &TelegramBot{
		api:             api,
		cfg:             cfg,
		localizer:       localizer,
		storage:         store,
		renderer:        renderer,
		resumeEngine:    forms.NewEngine(forms.ResumeFlow(), localizer, store),
		vacancyEngine:   forms.NewEngine(forms.VacancyFlow(), localizer, store),
		resumeSessions:  forms.NewSessionStore(),
		vacancySessions: forms.NewSessionStore(),
		adminStates:     make(map[int64]*adminState),
		ctx:             ctx,
	}
	bot.coordinator = moderation.NewCoordinator(
		store, renderer, bot, localizer,
		cfg.ReviewChatID, cfg.ChannelChatID, cfg.DefaultLanguage,
	)
	return bot, nil
}

// SessionStores exposes the per-flow stores so the scheduler can sweep them.
func (b *TelegramBot) SessionStores() []*forms.SessionStore {
	return []*forms.SessionStore{b.resumeSessions, b.vacancySessions}
}

func (b *TelegramBot) Start() {
	b.api.Debug = false
	log.Printf("Authorized on account %s", b.api.Self.UserName)
	b.listenForUpdates()
}

func (b *TelegramBot) listenForUpdates() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	for update := range updates {
		// Rendering and network sends are slow; one chat must never hold
		// up another. Per-chat session locks keep same-chat updates safe.
		go b.handleUpdate(update)
	}
}

func (b *TelegramBot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	message := update.Message

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	userID := message.From.ID
	b.adminMutex.Lock()
	state, inAdminState := b.adminStates[userID]
	b.adminMutex.Unlock()
	if inAdminState && message.Chat.ID == state.ChatID {
		b.handleRejectReason(message, state)
		return
	}

	if !message.Chat.IsPrivate() {
		return
	}
	b.handlePrivateMessage(message)
}

func (b *TelegramBot) isAdmin(userID int64) bool {
	if userID == b.cfg.SuperAdminID {
		return true
	}
	isAdmin, err := b.storage.IsUserAdmin(userID)
	if err != nil {
		log.Printf("Could not check admin status for user %d: %v", userID, err)
		return false
	}
	return isAdmin
}

func (b *TelegramBot) langFor(userID int64) string {
	lang, err := b.storage.GetUserLanguage(userID)
	if err != nil {
		log.Printf("Could not load language for user %d: %v", userID, err)
	}
	if lang == "" {
		return b.cfg.DefaultLanguage
	}
	return lang
}

func chatKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
