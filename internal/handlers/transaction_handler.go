package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"cennygrosz/internal/models"
	"cennygrosz/internal/pagination"
	"cennygrosz/internal/services"
)

// TransactionHandler handles ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for recording a transaction.
// The sign of amount is ignored; type decides whether it adds or subtracts.
type CreateTransactionRequest struct {
	WalletID string                 `json:"wallet_id" binding:"required"`
	Amount   *decimal.Decimal       `json:"amount" binding:"required" swaggertype:"number"`
	Type     models.TransactionType `json:"type" binding:"required,transaction_type"`
	Category string                 `json:"category" binding:"required,max=100"`
	Emoji    string                 `json:"emoji" binding:"max=32"`
	Note     *string                `json:"note" binding:"omitempty,max=500"`
}

// ListTransactionsQuery holds the query parameters for listing transactions.
type ListTransactionsQuery struct {
	pagination.LimitRequest
	WalletID string `form:"wallet_id"`
}

// CreateTransaction records a new income or expense
// @Summary     Record a transaction
// @Description Record an income or expense and update the wallet balance atomically
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} map[string]models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	txn, err := h.transactionService.Record(c.Request.Context(), userID, services.RecordInput{
		WalletID: req.WalletID,
		Amount:   *req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Emoji:    req.Emoji,
		Note:     req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": txn})
}

// ListTransactions lists transactions across accessible wallets
// @Summary     List transactions
// @Description List transactions from the user's wallets, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       wallet_id query string false "Restrict to one wallet"
// @Param       limit     query int    false "Maximum results (default 50, max 500)"
// @Success     200 {object} map[string][]models.Transaction "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "No access to wallet"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	var walletID *string
	if q.WalletID != "" {
		walletID = &q.WalletID
	}
	h.list(c, walletID, q.Limit)
}

// ListWalletTransactions lists transactions of one wallet
// @Summary     List wallet transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Wallet ID"
// @Param       limit query int    false "Maximum results (default 50, max 500)"
// @Success     200 {object} map[string][]models.Transaction "Transactions"
// @Failure     403 {object} ErrorResponse "No access to wallet"
// @Failure     404 {object} ErrorResponse "Wallet not found"
// @Router      /wallets/{id}/transactions [get]
func (h *TransactionHandler) ListWalletTransactions(c *gin.Context) {
	var q pagination.LimitRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	walletID := c.Param("id")
	h.list(c, &walletID, q.Limit)
}

func (h *TransactionHandler) list(c *gin.Context, walletID *string, limit int) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txns, err := h.transactionService.List(c.Request.Context(), userID, services.TransactionFilter{
		WalletID: walletID,
		Limit:    limit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns})
}

// GetTransaction returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]models.Transaction "Transaction"
// @Failure     403 {object} ErrorResponse "No access to transaction"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": txn})
}

// DeleteTransaction removes a transaction and reverses its balance effect
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     404 {object} ErrorResponse "Transaction or wallet not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.Remove(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted"})
}
