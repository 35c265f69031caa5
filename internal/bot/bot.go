// Package bot implements the Telegram front-end: students bind their chat
// to a roster entry, run daily study sessions, and teachers manage the
// course. All scheduling decisions live in the engine packages; the bot
// only presents cards and relays answers.
package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/foxbox/internal/database"
	"github.com/example/foxbox/internal/excel"
	"github.com/example/foxbox/internal/leitner"
	"github.com/example/foxbox/internal/progress"
	"github.com/example/foxbox/internal/study"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot represents the Telegram bot application
type Bot struct {
	api       *tgbotapi.BotAPI
	store     *progress.Store
	selector  *study.Selector
	classRepo *database.ClassRepository
	config    *BotConfig

	mu       sync.Mutex
	sessions map[int64]*study.Session // chat -> active session
	students map[int64]string         // chat -> bound student ID
	chats    map[string]int64         // student ID -> chat, for reminders
	admins   map[int64]bool
}

// New creates a new bot instance
func New(store *progress.Store, selector *study.Selector, classRepo *database.ClassRepository, config *BotConfig) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}

	if config == nil {
		config = DefaultConfig()
	}

	bot := &Bot{
		api:       api,
		store:     store,
		selector:  selector,
		classRepo: classRepo,
		config:    config,
		sessions:  make(map[int64]*study.Session),
		students:  make(map[int64]string),
		chats:     make(map[string]int64),
		admins:    parseAdminIDs(os.Getenv("ADMIN_CHAT_IDS")),
	}
	return bot, nil
}

// parseAdminIDs parses a comma-separated list of chat IDs
func parseAdminIDs(raw string) map[int64]bool {
	admins := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err == nil {
			admins[id] = true
		}
	}
	return admins
}

// Start begins processing updates until the context is canceled
func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

// Stop shuts down the update channel
func (b *Bot) Stop(ctx context.Context) error {
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	if update.Message.IsCommand() {
		b.handleCommand(update.Message)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.send(chatID, "Welcome to foxbox! Bind your student profile with /iam <student-id>, then run /study for your daily review.")
	case "iam":
		b.handleBind(chatID, strings.TrimSpace(msg.CommandArguments()))
	case "study":
		b.handleStudy(chatID)
	case "day":
		b.handleNextDay(chatID)
	case "stats":
		b.handleStats(chatID)
	case "assign":
		b.handleAssign(chatID, strings.Fields(msg.CommandArguments()))
	case "import":
		b.handleImport(chatID, strings.TrimSpace(msg.CommandArguments()))
	case "reset":
		b.handleReset(chatID, strings.TrimSpace(msg.CommandArguments()))
	default:
		b.send(chatID, "Unknown command. Available: /iam, /study, /day, /stats.")
	}
}

func (b *Bot) handleBind(chatID int64, studentID string) {
	if studentID == "" {
		b.send(chatID, "Usage: /iam <student-id>")
		return
	}
	student, err := b.classRepo.GetStudent(studentID)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Student %s not found.", studentID))
		return
	}

	b.mu.Lock()
	b.students[chatID] = student.ID
	b.chats[student.ID] = chatID
	b.mu.Unlock()

	b.send(chatID, fmt.Sprintf("Hello %s! You are on day %d of the review calendar. Run /study to begin.",
		student.Name, b.store.GetCurrentDay(student.ID)+1))
}

// boundStudent returns the student bound to the chat, or "" with a hint sent.
func (b *Bot) boundStudent(chatID int64) string {
	b.mu.Lock()
	studentID := b.students[chatID]
	b.mu.Unlock()
	if studentID == "" {
		b.send(chatID, "Bind your profile first: /iam <student-id>")
	}
	return studentID
}

func (b *Bot) handleStudy(chatID int64) {
	studentID := b.boundStudent(chatID)
	if studentID == "" {
		return
	}

	session, err := study.StartSession(b.store, b.selector, studentID, time.Now().UTC())
	if err != nil {
		log.Printf("Error starting session for student %s: %v", studentID, err)
		b.send(chatID, "Could not start a study session, please try again later.")
		return
	}
	if missing := session.Missing(); len(missing) > 0 {
		log.Printf("Warning: student %s has progress for cards missing from the catalog: %v", studentID, missing)
		b.send(chatID, fmt.Sprintf("Note: %d of your cards are missing from the catalog and were skipped. Tell your teacher.", len(missing)))
	}
	if session.Phase() == study.PhaseComplete {
		b.send(chatID, "Nothing to review today. Enjoy your day off!")
		return
	}

	b.mu.Lock()
	b.sessions[chatID] = session
	b.mu.Unlock()

	_, size := session.Position()
	log.Printf("Student %s started session %s: %d card(s) via %s", studentID, session.ID, size, session.Tier())

	day := b.store.GetCurrentDay(studentID)
	boxes := make([]string, len(session.Boxes()))
	for i, box := range session.Boxes() {
		boxes[i] = fmt.Sprintf("%d", box)
	}
	b.send(chatID, fmt.Sprintf("Day %d of %d — reviewing boxes %s.", day+1, leitner.CalendarLength, strings.Join(boxes, ", ")))
	b.sendCurrentCard(chatID, session)
}

func (b *Bot) sendCurrentCard(chatID int64, session *study.Session) {
	card, ok := session.Current()
	if !ok {
		return
	}
	cursor, size := session.Position()

	caption := fmt.Sprintf("Card %d of %d", cursor+1, size)
	if session.Phase() == study.PhaseLowestBoxLoop {
		caption = fmt.Sprintf("Catch-up pass %d — card %d of %d", session.Pass(), cursor+1, size)
	}

	photo := tgbotapi.NewPhoto(chatID, cardFile(card.QuestionImg))
	photo.Caption = caption
	photo.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "Show answer", CallbackData: "show:" + card.ID}},
	})
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending card %s: %v", card.ID, err)
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		return
	}
	chatID := query.Message.Chat.ID

	// Acknowledge the button press
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	b.mu.Lock()
	session := b.sessions[chatID]
	b.mu.Unlock()
	if session == nil {
		b.send(chatID, "No active session. Run /study to begin.")
		return
	}

	action, cardID, found := strings.Cut(query.Data, ":")
	if !found {
		return
	}

	// Inline keyboards on earlier messages stay tappable. Only the button
	// belonging to the card currently awaiting an answer may act; a stale
	// or duplicate tap would otherwise record against the wrong card.
	if !matchesCurrent(session, cardID) {
		return
	}

	switch action {
	case "show":
		b.showAnswer(chatID, session)
	case "correct":
		b.recordAnswer(chatID, session, true)
	case "wrong":
		b.recordAnswer(chatID, session, false)
	}
}

// matchesCurrent reports whether cardID is the card the session is waiting on.
func matchesCurrent(session *study.Session, cardID string) bool {
	card, ok := session.Current()
	return ok && card.ID == cardID
}

func (b *Bot) showAnswer(chatID int64, session *study.Session) {
	card, ok := session.Current()
	if !ok {
		return
	}
	photo := tgbotapi.NewPhoto(chatID, cardFile(card.AnswerImg))
	photo.Caption = "Did you get it right?"
	photo.ReplyMarkup = createKeyboard([][]MenuButton{
		{
			{Text: "Correct", CallbackData: "correct:" + card.ID},
			{Text: "Incorrect", CallbackData: "wrong:" + card.ID},
		},
	})
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending answer for card %s: %v", card.ID, err)
	}
}

func (b *Bot) recordAnswer(chatID int64, session *study.Session, correct bool) {
	prevPass := session.Pass()

	if err := session.Answer(correct); err != nil {
		log.Printf("Error recording answer in session %s for student %s: %v", session.ID, session.StudentID, err)
		b.send(chatID, "That answer could not be recorded.")
		return
	}

	switch {
	case session.Phase() == study.PhaseComplete:
		b.mu.Lock()
		delete(b.sessions, chatID)
		b.mu.Unlock()
		log.Printf("Session %s complete for student %s after %d pass(es)", session.ID, session.StudentID, session.Pass())
		b.send(chatID, "Daily study complete! Well done! Run /day when your teacher says to move to the next calendar day.")
	case session.Pass() > prevPass:
		_, size := session.Position()
		b.send(chatID, fmt.Sprintf("Catch-up pass %d: %d card(s) to retry until you get them all right.", session.Pass(), size))
		b.sendCurrentCard(chatID, session)
	default:
		b.sendCurrentCard(chatID, session)
	}
}

func (b *Bot) handleNextDay(chatID int64) {
	studentID := b.boundStudent(chatID)
	if studentID == "" {
		return
	}
	day := b.store.AdvanceDay(studentID)
	maxBox := leitner.ScheduleForDay(day)
	b.send(chatID, fmt.Sprintf("Moved to day %d of %d. Today's review goes up to box %d — run /study.", day+1, leitner.CalendarLength, maxBox))
}

func (b *Bot) handleStats(chatID int64) {
	studentID := b.boundStudent(chatID)
	if studentID == "" {
		return
	}

	dist := b.store.BoxDistribution(studentID)
	var sb strings.Builder
	total := 0
	sb.WriteString("Your boxes:\n")
	boxes := make([]int, 0, len(dist))
	for box := range dist {
		boxes = append(boxes, box)
	}
	sort.Ints(boxes)
	for _, box := range boxes {
		label := fmt.Sprintf("box %d", box)
		if box == leitner.LearnedBox {
			label = "learned"
		}
		sb.WriteString(fmt.Sprintf("  %s: %d card(s)\n", label, dist[box]))
		total += dist[box]
	}
	sb.WriteString(fmt.Sprintf("Total: %d card(s)\n", total))

	if first := b.store.FirstActivityDate(studentID); first != "" {
		sb.WriteString(fmt.Sprintf("Studying since %s, %d study day(s) in the last %d.\n",
			first, len(b.store.UsageDates(studentID, b.config.UsageDays)), b.config.UsageDays))
	}
	b.send(chatID, sb.String())
}

// handleAssign assigns a flashcard set to a class: /assign <set-id> <class-id>
func (b *Bot) handleAssign(chatID int64, args []string) {
	if !b.admins[chatID] {
		b.send(chatID, "Only teachers can assign sets.")
		return
	}
	if len(args) != 2 {
		b.send(chatID, "Usage: /assign <set-id> <class-id>")
		return
	}
	setID, classID := args[0], args[1]

	cardRepo := database.NewFlashcardRepository()
	set, err := cardRepo.GetSetByID(setID)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Set %s not found.", setID))
		return
	}
	students, err := b.classRepo.GetStudentsByClass(classID)
	if err != nil || len(students) == 0 {
		b.send(chatID, fmt.Sprintf("Class %s not found or has no students.", classID))
		return
	}

	studentIDs := make([]string, len(students))
	for i, s := range students {
		studentIDs[i] = s.ID
	}
	cardIDs := make([]string, len(set.Flashcards))
	for i, c := range set.Flashcards {
		cardIDs[i] = c.ID
	}

	b.store.AssignCards(studentIDs, cardIDs)
	b.send(chatID, fmt.Sprintf("Assigned %d cards from set %s to %d students in class %s.",
		len(cardIDs), setID, len(studentIDs), classID))
}

// handleImport loads a catalog file: /import <path>
func (b *Bot) handleImport(chatID int64, path string) {
	if !b.admins[chatID] {
		b.send(chatID, "Only teachers can import cards.")
		return
	}
	if path == "" {
		b.send(chatID, "Usage: /import <path-to-xlsx-or-csv>")
		return
	}

	config := excel.DefaultImportConfig()
	config.FilePath = path
	result, err := excel.ImportCards(config)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Import failed: %v", err))
		return
	}
	reply := fmt.Sprintf("Imported %d card(s) across %d new set(s), %d row(s) skipped.",
		result.Cards, result.SetsCreated, result.Skipped)
	if len(result.Errors) > 0 {
		reply += fmt.Sprintf("\n%d row error(s), first: %s", len(result.Errors), result.Errors[0])
	}
	b.send(chatID, reply)
}

// handleReset wipes all progress. The confirmation argument is the caller's
// safeguard; the engine itself resets unconditionally.
func (b *Bot) handleReset(chatID int64, arg string) {
	if !b.admins[chatID] {
		b.send(chatID, "Only teachers can reset progress.")
		return
	}
	if arg != "confirm" {
		b.send(chatID, "This wipes ALL student progress and cannot be undone. Run /reset confirm to proceed.")
		return
	}
	b.store.ResetAll()
	b.send(chatID, "All student progress has been reset.")
}

// SendStudyReminder implements the scheduler's Notifier interface
func (b *Bot) SendStudyReminder(studentID string, dueCount int) error {
	b.mu.Lock()
	chatID, ok := b.chats[studentID]
	b.mu.Unlock()
	if !ok {
		// Student never bound a chat; nothing to deliver.
		return nil
	}
	b.send(chatID, fmt.Sprintf("You have %d card(s) waiting today. Run /study!", dueCount))
	return nil
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
	}
}

// cardFile wraps an image reference for the Telegram API: URLs pass
// through, anything else is treated as a local file path.
func cardFile(ref string) tgbotapi.RequestFileData {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return tgbotapi.FileURL(ref)
	}
	return tgbotapi.FilePath(ref)
}
