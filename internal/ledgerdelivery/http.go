// Package ledgerdelivery manages delivery layer of the ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	CreateAccount(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	GetAccount(ctx context.Context, tenantID string, id int64) (domain.Account, error)
	FindAccountByCode(ctx context.Context, tenantID, code string) (domain.Account, error)
	ListMainAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
	ListSubAccounts(ctx context.Context, tenantID, code string) ([]domain.Account, error)
	GetStatement(ctx context.Context, arg domain.StatementParams) (domain.Statement, error)
	PostJournalEntry(ctx context.Context, arg domain.PostJournalEntryParams) (domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, tenantID string, id int64) (domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, tenantID string, pageSize, pageID int32) ([]domain.JournalEntry, error)
	RecomputeBalances(ctx context.Context, tenantID string) (domain.RecomputeReport, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service           Service
	statementMaxLimit int32
}

// NewHandler returns ledger handler.
func NewHandler(s Service, statementMaxLimit int32) Handler {
	if statementMaxLimit < 1 {
		statementMaxLimit = 100
	}

	return Handler{service: s, statementMaxLimit: statementMaxLimit}
}

type accountData struct {
	Account domain.Account `json:"account"`
}

type accountsData struct {
	Accounts []domain.Account `json:"accounts"`
}

type journalEntryData struct {
	JournalEntry domain.JournalEntry `json:"journal_entry"`
}

type journalEntriesData struct {
	JournalEntries []domain.JournalEntry `json:"journal_entries"`
}

type statementData struct {
	Statement domain.Statement `json:"statement"`
}

type reportData struct {
	Report domain.RecomputeReport `json:"report"`
}

// badRequest answers a request that failed binding.
func badRequest(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	var ve validator.ValidationErrors

	errMsg := "invalid request"
	if errors.As(err, &ve) {
		field := ve[0]
		errMsg = field.Field() + web.GetErrorMsg(field)
	}

	l.Info().Err(err).Send()
	gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})
}

// fail maps a service error to its status code.
//
// Integrity errors keep their message so that operators see what is broken;
// anything unclassified is reported as internal.
func fail(gctx *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.IsNotFound(err):
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.IsConflict(err):
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.IsIntegrity(err):
		gctx.JSON(http.StatusInternalServerError, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

// Accepted layouts of date parameters. A bare date is midnight UTC.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, fmt.Errorf("%s must be an RFC3339 timestamp or a YYYY-MM-DD date", field)
}

func parseAmount(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}

	// Validated by the amount tag.
	d, _ := decimal.NewFromString(s)

	return decimal.NewNullDecimal(d)
}

type createAccountRequest struct {
	Name           string  `json:"name" binding:"required,max=255"`
	Type           string  `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	IsMain         bool    `json:"is_main"`
	ParentID       *int64  `json:"parent_id" binding:"omitempty,min=1"`
	ParentCode     string  `json:"parent_code" binding:"omitempty,accountcode"`
	OpeningBalance *string `json:"opening_balance" binding:"omitempty,decimal"`
}

// CreateAccount handles http request to create an account.
func (h *Handler) CreateAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createAccountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	arg := domain.CreateAccountParams{
		TenantID:   middleware.TenantID(gctx),
		Name:       req.Name,
		Type:       domain.AccountType(req.Type),
		IsMain:     req.IsMain,
		ParentID:   req.ParentID,
		ParentCode: req.ParentCode,
	}

	if req.OpeningBalance != nil {
		arg.OpeningBalance, _ = decimal.NewFromString(*req.OpeningBalance)
	}

	account, err := h.service.CreateAccount(ctx, arg)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountData{account}})
}

type idURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// GetAccount handles http request to get an account.
func (h *Handler) GetAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req idURI
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.GetAccount(ctx, middleware.TenantID(gctx), req.ID)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountData{account}})
}

type findAccountRequest struct {
	Code string `form:"code" binding:"required,accountcode"`
}

// FindAccount handles http request to look an account up by its code.
func (h *Handler) FindAccount(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req findAccountRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	account, err := h.service.FindAccountByCode(ctx, middleware.TenantID(gctx), req.Code)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountData{account}})
}

// ListMainAccounts handles http request to list the root accounts.
func (h *Handler) ListMainAccounts(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	accounts, err := h.service.ListMainAccounts(ctx, middleware.TenantID(gctx))
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{accounts}})
}

// ListSubAccounts handles http request to list the direct children of an account.
func (h *Handler) ListSubAccounts(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	tenantID := middleware.TenantID(gctx)

	var req idURI
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	parent, err := h.service.GetAccount(ctx, tenantID, req.ID)
	if err != nil {
		fail(gctx, err)
		return
	}

	accounts, err := h.service.ListSubAccounts(ctx, tenantID, parent.Code)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: accountsData{accounts}})
}

type statementQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int32  `form:"page,default=1" binding:"min=1"`
	Limit     int32  `form:"limit,default=20" binding:"min=1"`
}

// GetStatement handles http request to get a page of an account statement.
func (h *Handler) GetStatement(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		badRequest(gctx, err)
		return
	}

	var req statementQuery
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	if req.Limit > h.statementMaxLimit {
		gctx.JSON(http.StatusBadRequest, web.Response{
			Error: fmt.Sprintf("limit must be at most %d", h.statementMaxLimit),
		})

		return
	}

	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	st, err := h.service.GetStatement(ctx, domain.StatementParams{
		TenantID:  middleware.TenantID(gctx),
		AccountID: uri.ID,
		StartDate: start,
		EndDate:   end,
		Page:      req.Page,
		Limit:     req.Limit,
	})
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: statementData{st}})
}

type postingRequest struct {
	AccountID int64  `json:"account_id" binding:"required,min=1"`
	Debit     string `json:"debit" binding:"omitempty,amount"`
	Credit    string `json:"credit" binding:"omitempty,amount"`
	Currency  string `json:"currency" binding:"omitempty,iso4217"`
	Notes     string `json:"notes" binding:"max=1024"`
}

type postJournalEntryRequest struct {
	Date     string           `json:"date" binding:"required"`
	Postings []postingRequest `json:"postings" binding:"dive"`
}

// PostJournalEntry handles http request to post a balanced journal entry.
func (h *Handler) PostJournalEntry(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req postJournalEntryRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	arg := domain.PostJournalEntryParams{
		TenantID: middleware.TenantID(gctx),
		Date:     *date,
		Postings: make([]domain.PostingParams, len(req.Postings)),
	}

	for i, p := range req.Postings {
		arg.Postings[i] = domain.PostingParams{
			AccountID: p.AccountID,
			Debit:     parseAmount(p.Debit),
			Credit:    parseAmount(p.Credit),
			Currency:  p.Currency,
			Notes:     p.Notes,
		}
	}

	entry, err := h.service.PostJournalEntry(ctx, arg)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: journalEntryData{entry}})
}

// GetJournalEntry handles http request to get a journal entry with its transactions.
func (h *Handler) GetJournalEntry(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req idURI
	if err := gctx.ShouldBindUri(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	entry, err := h.service.GetJournalEntry(ctx, middleware.TenantID(gctx), req.ID)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: journalEntryData{entry}})
}

type listRequest struct {
	Page  int32 `form:"page,default=1" binding:"min=1"`
	Limit int32 `form:"limit,default=20" binding:"min=1,max=100"`
}

// ListJournalEntries handles http request to list a page of journal entries.
func (h *Handler) ListJournalEntries(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		badRequest(gctx, err)
		return
	}

	entries, err := h.service.ListJournalEntries(ctx, middleware.TenantID(gctx), req.Limit, req.Page)
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: journalEntriesData{entries}})
}

// RecomputeBalances handles http request to rebuild the tenant's balances from history.
func (h *Handler) RecomputeBalances(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	report, err := h.service.RecomputeBalances(ctx, middleware.TenantID(gctx))
	if err != nil {
		fail(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: reportData{report}})
}

// Register routes the ledger endpoints. Every route requires a tenant.
func (h *Handler) Register(r gin.IRouter) {
	routes := r.Group("/", middleware.TenantMiddleware())

	routes.POST("/accounts", h.CreateAccount)
	routes.GET("/accounts", h.FindAccount)
	routes.GET("/accounts/main", h.ListMainAccounts)
	routes.GET("/accounts/:id", h.GetAccount)
	routes.GET("/accounts/:id/children", h.ListSubAccounts)
	routes.GET("/accounts/:id/statement", h.GetStatement)

	routes.POST("/journal-entries", h.PostJournalEntry)
	routes.GET("/journal-entries", h.ListJournalEntries)
	routes.GET("/journal-entries/:id", h.GetJournalEntry)

	routes.POST("/ledger/recompute", h.RecomputeBalances)
}
