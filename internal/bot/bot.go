package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"daily-routine/internal/model"
	"daily-routine/internal/notify"
	"daily-routine/internal/repository"
	"daily-routine/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageName
	stageTime
	stageCategory
	stagePriority
	stageRepeat
	stageDuration
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
)

const (
	btnSkip          = "⏭️ Skip"
	btnConfirm       = "✅ Confirm"
	btnCancel        = "↩️ Cancel"
	btnCancelDialog  = "⏪ Stop input"
	menuLabelNewTask = "➕ New task"
	menuLabelTasks   = "📋 Tasks"
	menuLabelToday   = "📅 Today"
	menuLabelHelp    = "ℹ️ Help"
)

type conversationState struct {
	stage conversationStage
	input model.TaskInput
}

type confirmationRequest struct {
	taskID string
	name   string
}

// Deps are the services the bot drives.
type Deps struct {
	Users     *repository.UserRepository
	Tasks     *service.TaskService
	Templates *service.TemplateService
	Trackers  *service.TrackerService
	Reports   *service.ReportService
	Notifier  *notify.Service
	Location  *time.Location
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	deps          Deps
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

// Connect authorizes the token against the Telegram API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] bot authorized on account %s", api.Self.UserName)
	return api, nil
}

func New(api *tgbotapi.BotAPI, deps Deps) *Bot {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &Bot{
		api:           api,
		deps:          deps,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled. Start again whenever you like.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, pending)
	}

	if b.hasConversation(msg.From.ID) {
		log.Printf("[info] conversation step %d from %d", b.getConversation(msg.From.ID).stage, msg.From.ID)
		return b.handleConversation(ctx, msg)
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Use /newtask to add a task or /help for the command list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	owner := user.ProfileKey()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(chatID)
	case "newtask":
		return b.startNewTaskConversation(msg)
	case "tasks":
		return b.sendTaskList(ctx, chatID, owner)
	case "done":
		return b.handleDone(ctx, chatID, owner, args)
	case "delete":
		return b.handleDelete(ctx, msg.From.ID, chatID, owner, args)
	case "move":
		return b.handleMove(ctx, chatID, owner, args)
	case "rename":
		return b.handleRename(ctx, chatID, owner, args)
	case "time":
		return b.handleTime(ctx, chatID, owner, args)
	case "templates":
		return b.handleTemplates(chatID)
	case "template":
		return b.handleApplyTemplate(ctx, chatID, owner, args)
	case "activities":
		return b.handleActivities(chatID, args)
	case "pick":
		return b.handlePick(ctx, chatID, owner, args)
	case "analyze":
		return b.handleAnalyze(ctx, chatID, owner)
	case "apply":
		return b.handleApplySuggestion(ctx, chatID, owner, args)
	case "stats":
		return b.handleStats(ctx, chatID, owner)
	case "today":
		return b.handleToday(ctx, chatID, owner)
	case "mood":
		return b.handleMood(ctx, chatID, owner, args)
	case "journal":
		return b.handleJournal(ctx, chatID, owner, args)
	case "water":
		return b.handleWater(ctx, chatID, owner, args)
	case "meal":
		return b.handleMeal(ctx, chatID, owner, args)
	case "sleep":
		return b.handleSleep(ctx, chatID, owner, args)
	case "steps":
		return b.handleSteps(ctx, chatID, owner, args)
	case "focus":
		return b.handleFocus(ctx, chatID, owner, args)
	case "focusdone":
		return b.handleFocusDone(ctx, chatID, owner)
	case "notify":
		return b.handleNotify(ctx, chatID, owner, args)
	case "remind":
		return b.handleRemind(ctx, chatID, owner, args)
	case "reminders":
		return b.handleReminderToggle(ctx, chatID, owner, args)
	case "report":
		return b.handleReport(ctx, chatID, owner)
	case "quote":
		return b.sendText(chatID, formatQuote(randomQuote()))
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(chatID, "⏪ Input cancelled.")
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "friend"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I keep your daily routine: tasks, streaks, mood and health.</b>\n\n"+
			"• /newtask to add a task step by step\n"+
			"• /tasks to see today's routine\n"+
			"• /templates for ready-made routines\n"+
			"• /today for mood, water and focus\n"+
			"• /help for everything else",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "ℹ️ <b>Routine</b>\n" +
		"• /newtask, add a task step by step\n" +
		"• /tasks, list tasks with ✅ and 🗑 buttons\n" +
		"• /done &lt;n&gt;, toggle task n\n" +
		"• /delete &lt;n&gt;, remove task n\n" +
		"• /move &lt;from&gt; &lt;to&gt;, reorder\n" +
		"• /rename &lt;n&gt; &lt;name&gt; and /time &lt;n&gt; &lt;HH:MM&gt;\n" +
		"• /templates, /template &lt;id&gt;, /activities &lt;theme&gt;, /pick a; b; c\n" +
		"• /analyze, then /apply &lt;n&gt; to add a suggestion\n" +
		"• /stats and /report\n\n" +
		"📅 <b>Trackers</b>\n" +
		"• /today, the day at a glance\n" +
		"• /mood &lt;excellent|good|okay|poor|terrible&gt; [notes]\n" +
		"• /journal [text]\n" +
		"• /water [+|-]\n" +
		"• /meal &lt;breakfast|lunch|dinner|snacks&gt; &lt;text&gt;\n" +
		"• /sleep &lt;bed&gt; &lt;wake&gt; &lt;quality&gt;, /steps &lt;n&gt;\n" +
		"• /focus [text] and /focusdone\n\n" +
		"🔔 <b>Notifications</b>\n" +
		"• /notify on|off|test\n" +
		"• /remind &lt;minutes&gt;\n" +
		"• /reminders &lt;tasks|streak|motivation&gt; on|off\n\n" +
		"• /quote for a bit of motivation, /cancel to stop any input"
	return b.sendText(chatID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelNewTask):
		return true, b.startNewTaskConversation(msg)
	case strings.ToLower(menuLabelTasks), strings.ToLower(menuLabelToday):
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return true, err
		}
		if text == strings.ToLower(menuLabelToday) {
			return true, b.handleToday(ctx, msg.Chat.ID, user.ProfileKey())
		}
		return true, b.sendTaskList(ctx, msg.Chat.ID, user.ProfileKey())
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg.Chat.ID)
	default:
		return false, nil
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.deps.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendTextWithRemove(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.api.Send(msg); err != nil {
		return err
	}
	return b.sendMenuPlaceholder(chatID)
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMenuPlaceholder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔹 Main menu")
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

// sendError reports a failed operation to the chat and keeps the bot going.
func (b *Bot) sendError(chatID int64, action string, err error) error {
	log.Printf("[warn] %s: %v", action, err)
	return b.sendText(chatID, fmt.Sprintf("Could not %s: %s", action, escape(err.Error())))
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
