package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "cennygrosz/internal/errors"
	"cennygrosz/internal/llm"
	"cennygrosz/internal/logger"
	"cennygrosz/internal/models"
	"cennygrosz/internal/pagination"
)

// FallbackReply is returned whenever the text-generation service fails.
const FallbackReply = "Przepraszam, wystąpił problem z połączeniem. Spróbuj ponownie później. 🙏"

const (
	// DefaultHistoryLimit is used when a history request does not ask for a limit.
	DefaultHistoryLimit = 20

	recentTransactionsWindow = 20
	topCategoriesCount       = 5
)

// financialSnapshot is the read-only context handed to the model.
type financialSnapshot struct {
	UserName      string
	WalletsCount  int
	TotalBalance  decimal.Decimal
	Recent        int
	IncomeTotal   decimal.Decimal
	ExpenseTotal  decimal.Decimal
	TopCategories []categoryTotal
	Goals         []models.Goal
}

type categoryTotal struct {
	Name   string
	Amount decimal.Decimal
}

// assistantService bridges chat messages to the text generator.
type assistantService struct {
	db        *gorm.DB
	generator llm.Generator
	timeout   time.Duration
	now       func() time.Time
}

// NewAssistantService creates a new AssistantServicer. Each generation call
// is bounded by timeout.
func NewAssistantService(db *gorm.DB, generator llm.Generator, timeout time.Duration) AssistantServicer {
	return &assistantService{db: db, generator: generator, timeout: timeout, now: time.Now}
}

// Chat answers message using a snapshot of the user's finances. Generator
// failures never surface as errors: the caller gets FallbackReply and nothing
// is stored.
func (s *assistantService) Chat(ctx context.Context, userID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}

	log := logger.Named("assistant")

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		log.Errorw("Failed to build financial snapshot", "user_id", userID, "error", err)
		return s.fallback(), nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.generator.Generate(genCtx, buildSystemPrompt(snap), message)
	if err != nil {
		log.Warnw("AI generation failed",
			"user_id", userID,
			"code", apperrors.ErrExternalService.Code,
			"error", err)
		return s.fallback(), nil
	}

	exchange := &models.ChatMessage{
		UserID:      userID,
		UserMessage: message,
		AIResponse:  response,
	}
	if err := s.db.WithContext(ctx).Create(exchange).Error; err != nil {
		log.Errorw("Failed to store chat exchange", "user_id", userID, "error", err)
		return &ChatReply{Response: response, Timestamp: s.now().UTC()}, nil
	}

	return &ChatReply{Response: response, Timestamp: exchange.CreatedAt}, nil
}

func (s *assistantService) fallback() *ChatReply {
	return &ChatReply{Response: FallbackReply, Timestamp: s.now().UTC()}
}

// History returns the user's most recent exchanges in chronological order.
func (s *assistantService) History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error) {
	req := pagination.LimitRequest{Limit: limit}
	req.Defaults(DefaultHistoryLimit)

	var messages []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(pagination.Newest, pagination.Limit(req)).
		Find(&messages).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// snapshot gathers the user's wallets, recent transactions and goals.
func (s *assistantService) snapshot(ctx context.Context, userID string) (*financialSnapshot, error) {
	db := s.db.WithContext(ctx)

	var (
		user    models.User
		wallets []models.Wallet
		recent  []models.Transaction
		goals   []models.Goal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.WithContext(gctx).Where("id = ?", userID).First(&user).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Where("id IN (?)", accessibleWalletIDs(db, userID)).Find(&wallets).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).
			Where("wallet_id IN (?)", accessibleWalletIDs(db, userID)).
			Scopes(pagination.Newest).
			Limit(recentTransactionsWindow).
			Find(&recent).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &financialSnapshot{
		UserName:     user.Name,
		WalletsCount: len(wallets),
		TotalBalance: decimal.Zero,
		Recent:       len(recent),
		IncomeTotal:  decimal.Zero,
		ExpenseTotal: decimal.Zero,
		Goals:        goals,
	}
	for _, w := range wallets {
		snap.TotalBalance = snap.TotalBalance.Add(w.Balance)
	}

	byCategory := map[string]decimal.Decimal{}
	for _, txn := range recent {
		switch txn.Type {
		case models.TransactionTypeIncome:
			snap.IncomeTotal = snap.IncomeTotal.Add(txn.Amount)
		case models.TransactionTypeExpense:
			snap.ExpenseTotal = snap.ExpenseTotal.Add(txn.Amount)
			byCategory[txn.Category] = byCategory[txn.Category].Add(txn.Amount)
		}
	}
	snap.TopCategories = topCategories(byCategory, topCategoriesCount)

	return snap, nil
}

// topCategories returns the n largest totals, ties broken by name.
func topCategories(totals map[string]decimal.Decimal, n int) []categoryTotal {
	out := make([]categoryTotal, 0, len(totals))
	for name, amount := range totals {
		out = append(out, categoryTotal{Name: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func pln(d decimal.Decimal) string {
	return d.StringFixed(2) + " PLN"
}

// buildSystemPrompt renders the snapshot into the assistant's Polish persona prompt.
func buildSystemPrompt(snap *financialSnapshot) string {
	var b strings.Builder

	b.WriteString("Jesteś Cenny Grosz - przyjaznym i profesjonalnym asystentem finansowym po polsku.\n\n")
	b.WriteString("Twoja osobowość:\n")
	b.WriteString("- Przyjazny i wspierający, ale profesjonalny\n")
	b.WriteString("- Zachęcający, ale nie dziecinny\n")
	b.WriteString("- Mądry doradca finansowy\n")
	b.WriteString("- Pomagasz w planowaniu budżetu i oszczędnościach\n\n")

	fmt.Fprintf(&b, "Dane finansowe użytkownika %s:\n", snap.UserName)
	fmt.Fprintf(&b, "- Liczba portfeli: %d\n", snap.WalletsCount)
	fmt.Fprintf(&b, "- Całkowite saldo: %s\n", pln(snap.TotalBalance))

	if snap.Recent > 0 {
		fmt.Fprintf(&b, "\nOstatnie transakcje (%d):\n", snap.Recent)
		fmt.Fprintf(&b, "- Suma przychodów: %s\n", pln(snap.IncomeTotal))
		fmt.Fprintf(&b, "- Suma wydatków: %s\n", pln(snap.ExpenseTotal))
		parts := make([]string, 0, len(snap.TopCategories))
		for _, c := range snap.TopCategories {
			parts = append(parts, c.Name+": "+pln(c.Amount))
		}
		fmt.Fprintf(&b, "- Top kategorie wydatków: %s\n", strings.Join(parts, ", "))
	}

	if len(snap.Goals) > 0 {
		b.WriteString("\nCele oszczędnościowe:\n")
		for i := range snap.Goals {
			g := &snap.Goals[i]
			fmt.Fprintf(&b, "- %s %s: %s/%s PLN (%d%%)\n",
				g.Emoji, g.Name, g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), int(g.Progress()))
		}
	}

	b.WriteString("\nOdpowiadaj zawsze po polsku. Bądź pomocny i konkretny. Dawaj praktyczne porady finansowe.\n")
	b.WriteString("Używaj emoji by być przyjaznym, ale nie przesadzaj.")

	return b.String()
}
