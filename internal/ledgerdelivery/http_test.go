package ledgerdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

const statementMaxLimit = 50

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := RegisterValidators(v); err != nil {
			fmt.Fprintf(os.Stderr, "RegisterValidators(v) returned error: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

func randomAccount(tenantID string, parent *domain.Account) domain.Account {
	a := domain.Account{
		ID:             randompkg.IntBetween(1, 1000),
		TenantID:       tenantID,
		Code:           "1",
		Name:           randompkg.AccountName(),
		Type:           domain.AccountTypeAsset,
		IsMain:         true,
		OpeningBalance: randompkg.Amount(0, 1000),
		CreatedAt:      time.Now().UTC().Truncate(time.Second),
	}

	if parent != nil {
		a.ParentID = &parent.ID
		a.IsMain = false
		a.Code = parent.Code + ".1"
		a.Type = parent.Type
	}

	a.CurrentBalance = a.OpeningBalance

	return a
}

// cmpMatcher matches arguments with cmp.Equal so that decimals compare by value.
type cmpMatcher struct {
	want any
}

func eqCmp(want any) gomock.Matcher {
	return cmpMatcher{want: want}
}

func (m cmpMatcher) Matches(x any) bool {
	return cmp.Equal(m.want, x)
}

func (m cmpMatcher) String() string {
	return fmt.Sprintf("is equal to %+v", m.want)
}

func newTestServer(t *testing.T) (*gin.Engine, *MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := NewHandler(service, statementMaxLimit)

	server := gin.New()
	handler.Register(server)

	return server, service
}

func send(t *testing.T, server *gin.Engine, method, path, tenantID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Encoding request body error: %v", err)
		}

		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	if tenantID != "" {
		req.Header.Set(middleware.TenantHeader, tenantID)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder, data any) web.Response {
	t.Helper()

	res := web.Response{Data: data}
	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return res
}

func TestCreateAccount(t *testing.T) {
	tenantID := randompkg.TenantID()
	main := randomAccount(tenantID, nil)
	sub := randomAccount(tenantID, &main)

	type requestBody map[string]any

	testCases := []struct {
		name           string
		tenantID       string
		requestBody    requestBody
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		wantAccount    domain.Account
	}{
		{
			name:     "OKMain",
			tenantID: tenantID,
			requestBody: requestBody{
				"name":            main.Name,
				"type":            "ASSET",
				"is_main":         true,
				"opening_balance": main.OpeningBalance.String(),
			},
			buildStubs: func(service *MockService) {
				arg := domain.CreateAccountParams{
					TenantID:       tenantID,
					Name:           main.Name,
					Type:           domain.AccountTypeAsset,
					IsMain:         true,
					OpeningBalance: main.OpeningBalance,
				}

				service.EXPECT().
					CreateAccount(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(main, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount:    main,
		},
		{
			name:     "OKSubByParentCode",
			tenantID: tenantID,
			requestBody: requestBody{
				"name":        sub.Name,
				"type":        "ASSET",
				"parent_code": main.Code,
			},
			buildStubs: func(service *MockService) {
				arg := domain.CreateAccountParams{
					TenantID:       tenantID,
					Name:           sub.Name,
					Type:           domain.AccountTypeAsset,
					ParentCode:     main.Code,
					OpeningBalance: decimal.Zero,
				}

				service.EXPECT().
					CreateAccount(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(sub, nil)
			},
			wantStatusCode: http.StatusOK,
			wantAccount:    sub,
		},
		{
			name:        "NoTenant",
			requestBody: requestBody{"name": main.Name, "type": "ASSET", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrTenantRequired.Error(),
		},
		{
			name:        "MissingName",
			tenantID:    tenantID,
			requestBody: requestBody{"type": "ASSET", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "name field is required",
		},
		{
			name:        "InvalidType",
			tenantID:    tenantID,
			requestBody: requestBody{"name": main.Name, "type": "CASH", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "type must be one of [ASSET LIABILITY EQUITY REVENUE EXPENSE]",
		},
		{
			name:        "InvalidParentCode",
			tenantID:    tenantID,
			requestBody: requestBody{"name": sub.Name, "type": "ASSET", "parent_code": "1..2"},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "parent_code must be a dot-delimited list of positive integers",
		},
		{
			name:     "InvalidOpeningBalance",
			tenantID: tenantID,
			requestBody: requestBody{
				"name": main.Name, "type": "ASSET", "is_main": true, "opening_balance": "ten",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "opening_balance must be a plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name:     "OpeningBalanceExponent",
			tenantID: tenantID,
			requestBody: requestBody{
				"name": main.Name, "type": "ASSET", "is_main": true, "opening_balance": "1e20000000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "opening_balance must be a plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name:     "OpeningBalanceTooLarge",
			tenantID: tenantID,
			requestBody: requestBody{
				"name": main.Name, "type": "ASSET", "is_main": true, "opening_balance": "-12345678901234567",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "opening_balance must be a plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name:     "OpeningBalanceTooPrecise",
			tenantID: tenantID,
			requestBody: requestBody{
				"name": main.Name, "type": "ASSET", "is_main": true, "opening_balance": "0.12345",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "opening_balance must be a plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name:        "BlankName",
			tenantID:    tenantID,
			requestBody: requestBody{"name": "   ", "type": "ASSET", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrNameRequired)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrNameRequired.Error(),
		},
		{
			name:        "ErrParentNotFound",
			tenantID:    tenantID,
			requestBody: requestBody{"name": sub.Name, "type": "ASSET", "parent_code": "9"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrParentNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrParentNotFound.Error(),
		},
		{
			name:        "ErrInvalidHierarchy",
			tenantID:    tenantID,
			requestBody: requestBody{"name": sub.Name, "type": "ASSET"},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrInvalidHierarchy)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidHierarchy.Error(),
		},
		{
			name:        "ErrCodeConflict",
			tenantID:    tenantID,
			requestBody: requestBody{"name": main.Name, "type": "ASSET", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrCodeConflict)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrCodeConflict.Error(),
		},
		{
			name:        "InternalServerError",
			tenantID:    tenantID,
			requestBody: requestBody{"name": main.Name, "type": "ASSET", "is_main": true},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, service := newTestServer(t)
			tc.buildStubs(service)

			recorder := send(t, server, http.MethodPost, "/accounts", tc.tenantID, tc.requestBody)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := decode(t, recorder, &accountData{})

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			got := res.Data.(*accountData)
			if diff := cmp.Diff(tc.wantAccount, got.Account); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetAccount(t *testing.T) {
	tenantID := randompkg.TenantID()
	account := randomAccount(tenantID, nil)

	testCases := []struct {
		name           string
		path           string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			path: fmt.Sprintf("/accounts/%d", account.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetAccount(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(account.ID)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "NegativeID",
			path: "/accounts/-1",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetAccount(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "id must be at least 1",
		},
		{
			name: "NonNumericID",
			path: "/accounts/abc",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetAccount(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request",
		},
		{
			name: "ErrAccountNotFound",
			path: fmt.Sprintf("/accounts/%d", account.ID),
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetAccount(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(account.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, service := newTestServer(t)
			tc.buildStubs(service)

			recorder := send(t, server, http.MethodGet, tc.path, tenantID, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := decode(t, recorder, &accountData{})

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(account, res.Data.(*accountData).Account); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindAccount(t *testing.T) {
	tenantID := randompkg.TenantID()
	main := randomAccount(tenantID, nil)
	sub := randomAccount(tenantID, &main)

	testCases := []struct {
		name           string
		query          string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:  "OK",
			query: "?code=" + sub.Code,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					FindAccountByCode(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(sub.Code)).
					Times(1).
					Return(sub, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "MissingCode",
			query: "",
			buildStubs: func(service *MockService) {
				service.EXPECT().FindAccountByCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "code field is required",
		},
		{
			name:  "InvalidCode",
			query: "?code=01.2",
			buildStubs: func(service *MockService) {
				service.EXPECT().FindAccountByCode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "code must be a dot-delimited list of positive integers",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, service := newTestServer(t)
			tc.buildStubs(service)

			recorder := send(t, server, http.MethodGet, "/accounts"+tc.query, tenantID, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := decode(t, recorder, &accountData{})

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(sub, res.Data.(*accountData).Account); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListAccounts(t *testing.T) {
	tenantID := randompkg.TenantID()
	main := randomAccount(tenantID, nil)
	sub := randomAccount(tenantID, &main)

	t.Run("Main", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			ListMainAccounts(gomock.Any(), gomock.Eq(tenantID)).
			Times(1).
			Return([]domain.Account{main}, nil)

		recorder := send(t, server, http.MethodGet, "/accounts/main", tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &accountsData{})
		if diff := cmp.Diff([]domain.Account{main}, res.Data.(*accountsData).Accounts); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Children", func(t *testing.T) {
		server, service := newTestServer(t)

		gomock.InOrder(
			service.EXPECT().
				GetAccount(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(main.ID)).
				Return(main, nil),
			service.EXPECT().
				ListSubAccounts(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(main.Code)).
				Return([]domain.Account{sub}, nil),
		)

		path := fmt.Sprintf("/accounts/%d/children", main.ID)

		recorder := send(t, server, http.MethodGet, path, tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &accountsData{})
		if diff := cmp.Diff([]domain.Account{sub}, res.Data.(*accountsData).Accounts); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ChildrenOfMissingParent", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			GetAccount(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(main.ID)).
			Return(domain.Account{}, domain.ErrAccountNotFound)
		service.EXPECT().ListSubAccounts(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		path := fmt.Sprintf("/accounts/%d/children", main.ID)

		recorder := send(t, server, http.MethodGet, path, tenantID, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Status code: got %v, want %v", recorder.Code, http.StatusNotFound)
		}
	})
}

func TestGetStatement(t *testing.T) {
	tenantID := randompkg.TenantID()
	account := randomAccount(tenantID, nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	statement := domain.Statement{
		Account:          account,
		OpeningBalance:   account.OpeningBalance,
		Rows:             []domain.StatementRow{},
		TotalWindowCount: 0,
		Page:             2,
		Limit:            10,
		StartDate:        &start,
		EndDate:          &end,
	}

	testCases := []struct {
		name           string
		query          string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:  "OK",
			query: "?start_date=2024-01-01&end_date=2024-01-31T00:00:00Z&page=2&limit=10",
			buildStubs: func(service *MockService) {
				arg := domain.StatementParams{
					TenantID:  tenantID,
					AccountID: account.ID,
					StartDate: &start,
					EndDate:   &end,
					Page:      2,
					Limit:     10,
				}

				service.EXPECT().
					GetStatement(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(statement, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "DefaultPagination",
			query: "",
			buildStubs: func(service *MockService) {
				arg := domain.StatementParams{
					TenantID:  tenantID,
					AccountID: account.ID,
					Page:      1,
					Limit:     20,
				}

				service.EXPECT().
					GetStatement(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(statement, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "LimitAboveMax",
			query: fmt.Sprintf("?limit=%d", statementMaxLimit+1),
			buildStubs: func(service *MockService) {
				service.EXPECT().GetStatement(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      fmt.Sprintf("limit must be at most %d", statementMaxLimit),
		},
		{
			name:  "ZeroPage",
			query: "?page=0",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetStatement(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "page must be at least 1",
		},
		{
			name:  "InvalidStartDate",
			query: "?start_date=01/01/2024",
			buildStubs: func(service *MockService) {
				service.EXPECT().GetStatement(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "start_date must be an RFC3339 timestamp or a YYYY-MM-DD date",
		},
		{
			name:  "ErrInvalidDateRange",
			query: "?start_date=2024-02-01&end_date=2024-01-01",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetStatement(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Statement{}, domain.ErrInvalidDateRange)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidDateRange.Error(),
		},
		{
			name:  "ErrAccountNotFound",
			query: "",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					GetStatement(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Statement{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, service := newTestServer(t)
			tc.buildStubs(service)

			path := fmt.Sprintf("/accounts/%d/statement%s", account.ID, tc.query)
			recorder := send(t, server, http.MethodGet, path, tenantID, nil)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := decode(t, recorder, &statementData{})

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(statement, res.Data.(*statementData).Statement); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPostJournalEntry(t *testing.T) {
	tenantID := randompkg.TenantID()
	amount := randompkg.Amount(1, 1000)
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	entry := domain.JournalEntry{
		ID:       7,
		TenantID: tenantID,
		Date:     date,
		Transactions: []domain.Transaction{
			{ID: 1, JournalEntryID: 7, AccountID: 1, Debit: decimal.NewNullDecimal(amount), Currency: "JOD", Date: date},
			{ID: 2, JournalEntryID: 7, AccountID: 2, Credit: decimal.NewNullDecimal(amount), Currency: "JOD", Date: date},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	type posting map[string]any

	balanced := []posting{
		{"account_id": 1, "debit": amount.String(), "notes": "cash in"},
		{"account_id": 2, "credit": amount.String(), "currency": "JOD"},
	}

	testCases := []struct {
		name           string
		requestBody    map[string]any
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: map[string]any{"date": "2024-03-15", "postings": balanced},
			buildStubs: func(service *MockService) {
				arg := domain.PostJournalEntryParams{
					TenantID: tenantID,
					Date:     date,
					Postings: []domain.PostingParams{
						{AccountID: 1, Debit: decimal.NewNullDecimal(amount), Notes: "cash in"},
						{AccountID: 2, Credit: decimal.NewNullDecimal(amount), Currency: "JOD"},
					},
				}

				service.EXPECT().
					PostJournalEntry(gomock.Any(), eqCmp(arg)).
					Times(1).
					Return(entry, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "MissingDate",
			requestBody: map[string]any{"postings": balanced},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "date field is required",
		},
		{
			name:        "InvalidDate",
			requestBody: map[string]any{"date": "15.03.2024", "postings": balanced},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "date must be an RFC3339 timestamp or a YYYY-MM-DD date",
		},
		{
			name: "NegativeDebit",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "-5"},
				{"account_id": 2, "credit": "-5"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "debit must be a non-negative plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name: "ExponentDebit",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "1e20000000"},
				{"account_id": 2, "credit": "1e20000000"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "debit must be a non-negative plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name: "TooLargeCredit",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "1"},
				{"account_id": 2, "credit": "10000000000000000"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "credit must be a non-negative plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name: "TooPreciseDebit",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "0.00001"},
				{"account_id": 2, "credit": "0.00001"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "debit must be a non-negative plain decimal with at most 16 integer digits and 4 decimal places",
		},
		{
			name: "InvalidCurrency",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "5", "currency": "XXXX"},
				{"account_id": 2, "credit": "5"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().PostJournalEntry(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "currency is not a valid currency code",
		},
		{
			name: "ErrUnbalancedEntry",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{
				{"account_id": 1, "debit": "100"},
				{"account_id": 2, "credit": "90"},
			}},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					PostJournalEntry(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.JournalEntry{}, domain.ErrUnbalancedEntry)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrUnbalancedEntry.Error(),
		},
		{
			name:        "ErrEmptyEntry",
			requestBody: map[string]any{"date": "2024-03-15", "postings": []posting{}},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					PostJournalEntry(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.JournalEntry{}, domain.ErrEmptyEntry)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrEmptyEntry.Error(),
		},
		{
			name:        "ErrAccountNotFound",
			requestBody: map[string]any{"date": "2024-03-15", "postings": balanced},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					PostJournalEntry(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.JournalEntry{}, fmt.Errorf("%w: %d", domain.ErrAccountNotFound, 2))
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      "account not found: 2",
		},
		{
			name:        "ErrCyclicHierarchy",
			requestBody: map[string]any{"date": "2024-03-15", "postings": balanced},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					PostJournalEntry(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.JournalEntry{}, domain.ErrCyclicHierarchy)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      domain.ErrCyclicHierarchy.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server, service := newTestServer(t)
			tc.buildStubs(service)

			recorder := send(t, server, http.MethodPost, "/journal-entries", tenantID, tc.requestBody)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := decode(t, recorder, &journalEntryData{})

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(entry, res.Data.(*journalEntryData).JournalEntry); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJournalEntryReads(t *testing.T) {
	tenantID := randompkg.TenantID()
	entry := domain.JournalEntry{
		ID:           3,
		TenantID:     tenantID,
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Transactions: []domain.Transaction{},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Get", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			GetJournalEntry(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(entry.ID)).
			Times(1).
			Return(entry, nil)

		recorder := send(t, server, http.MethodGet, "/journal-entries/3", tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &journalEntryData{})
		if diff := cmp.Diff(entry, res.Data.(*journalEntryData).JournalEntry); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetNotFound", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			GetJournalEntry(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(int64(99))).
			Times(1).
			Return(domain.JournalEntry{}, domain.ErrJournalEntryNotFound)

		recorder := send(t, server, http.MethodGet, "/journal-entries/99", tenantID, nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Status code: got %v, want %v", recorder.Code, http.StatusNotFound)
		}
	})

	t.Run("ListDefaultPagination", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			ListJournalEntries(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(int32(20)), gomock.Eq(int32(1))).
			Times(1).
			Return([]domain.JournalEntry{entry}, nil)

		recorder := send(t, server, http.MethodGet, "/journal-entries", tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &journalEntriesData{})
		if diff := cmp.Diff([]domain.JournalEntry{entry}, res.Data.(*journalEntriesData).JournalEntries); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ListLastPossiblePage", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			ListJournalEntries(gomock.Any(), gomock.Eq(tenantID), gomock.Eq(int32(100)), gomock.Eq(int32(math.MaxInt32))).
			Times(1).
			Return([]domain.JournalEntry{}, nil)

		path := fmt.Sprintf("/journal-entries?limit=100&page=%d", math.MaxInt32)

		recorder := send(t, server, http.MethodGet, path, tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &journalEntriesData{})
		if got := res.Data.(*journalEntriesData).JournalEntries; len(got) != 0 {
			t.Errorf("got %d journal entries, want none", len(got))
		}
	})

	t.Run("ListLimitAboveMax", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().ListJournalEntries(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		recorder := send(t, server, http.MethodGet, "/journal-entries?limit=101", tenantID, nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Status code: got %v, want %v", recorder.Code, http.StatusBadRequest)
		}

		if res := decode(t, recorder, nil); res.Error != "limit must be at most 100" {
			t.Errorf(`resp.Error=%q, want %q`, res.Error, "limit must be at most 100")
		}
	})
}

func TestRecomputeBalances(t *testing.T) {
	tenantID := randompkg.TenantID()

	t.Run("OK", func(t *testing.T) {
		server, service := newTestServer(t)

		report := domain.RecomputeReport{
			TenantID: tenantID,
			Accounts: 3,
			Updated:  1,
			Issues: []domain.IntegrityIssue{
				{AccountID: 2, Code: "1.1", Problem: domain.ErrBalanceMismatch.Error()},
			},
		}

		service.EXPECT().
			RecomputeBalances(gomock.Any(), gomock.Eq(tenantID)).
			Times(1).
			Return(report, nil)

		recorder := send(t, server, http.MethodPost, "/ledger/recompute", tenantID, nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
		}

		res := decode(t, recorder, &reportData{})
		if diff := cmp.Diff(report, res.Data.(*reportData).Report); diff != "" {
			t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("InternalServerError", func(t *testing.T) {
		server, service := newTestServer(t)

		service.EXPECT().
			RecomputeBalances(gomock.Any(), gomock.Eq(tenantID)).
			Times(1).
			Return(domain.RecomputeReport{}, errorspkg.ErrInternal)

		recorder := send(t, server, http.MethodPost, "/ledger/recompute", tenantID, nil)
		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("Status code: got %v, want %v", recorder.Code, http.StatusInternalServerError)
		}

		if res := decode(t, recorder, nil); res.Error != errorspkg.ErrInternal.Error() {
			t.Errorf(`resp.Error=%q, want %q`, res.Error, errorspkg.ErrInternal.Error())
		}
	})
}
