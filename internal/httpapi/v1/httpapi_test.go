package v1

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/tinoosan/bank/internal/auth"
	"github.com/tinoosan/bank/internal/ident"
	"github.com/tinoosan/bank/internal/service/account"
	"github.com/tinoosan/bank/internal/service/transaction"
	filestore "github.com/tinoosan/bank/internal/storage/file"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type acctResp struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BalanceMinor  int64  `json:"balance_minor"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}

type balResp struct {
	AccountNumber string `json:"account_number"`
	BalanceMinor  int64  `json:"balance_minor"`
}

type errResp struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func setup(t *testing.T, secret []byte) http.Handler {
	t.Helper()
	store := filestore.New(filepath.Join(t.TempDir(), "ledger.json"))
	accountSvc := account.New(store, ident.New())
	txSvc := transaction.New(store)
	var authSvc *auth.Service
	if len(secret) > 0 {
		authSvc = auth.New(accountSvc, secret, "bank", time.Hour)
	}
	return New(accountSvc, txSvc, authSvc, store, "USD", secret, "bank", testLogger()).Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body map[string]any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createAccount(t *testing.T, h http.Handler, name string, depositMinor int64, password string) acctResp {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/v1/accounts", map[string]any{
		"account_name":          name,
		"initial_deposit_minor": depositMinor,
		"account_password":      password,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp acctResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestCreateAndFetchAccount(t *testing.T) {
	h := setup(t, nil)

	acc := createAccount(t, h, "Alice", 10000, "pw")
	if len(acc.AccountNumber) != 10 {
		t.Fatalf("expected 10-digit account number, got %q", acc.AccountNumber)
	}
	if acc.BalanceMinor != 10000 || acc.Currency != "USD" {
		t.Fatalf("unexpected create response: %+v", acc)
	}

	rec := doJSON(t, h, http.MethodGet, "/v1/accounts/"+acc.AccountNumber, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got acctResp
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.AccountName != "Alice" || got.BalanceMinor != 10000 {
		t.Fatalf("unexpected account: %+v", got)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("credential")) {
		t.Fatal("account response leaked credential data")
	}
}

func TestGetUnknownAccount(t *testing.T) {
	h := setup(t, nil)
	rec := doJSON(t, h, http.MethodGet, "/v1/accounts/0000000000", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDepositAndWithdrawFlow(t *testing.T) {
	h := setup(t, nil)
	acc := createAccount(t, h, "Alice", 10000, "pw")
	base := "/v1/accounts/" + acc.AccountNumber

	// deposit 50.00
	rec := doJSON(t, h, http.MethodPost, base+"/deposit", map[string]any{"amount_minor": 5000}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var bal balResp
	_ = json.Unmarshal(rec.Body.Bytes(), &bal)
	if bal.BalanceMinor != 15000 {
		t.Fatalf("expected balance 15000, got %d", bal.BalanceMinor)
	}

	// negative deposit fails and changes nothing
	rec = doJSON(t, h, http.MethodPost, base+"/deposit", map[string]any{"amount_minor": -10}, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative deposit: expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var e errResp
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %+v", e)
	}

	// oversized withdrawal fails and changes nothing
	rec = doJSON(t, h, http.MethodPost, base+"/withdraw", map[string]any{"amount_minor": 100000}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("oversized withdrawal: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "insufficient_funds" {
		t.Fatalf("expected insufficient_funds, got %+v", e)
	}

	rec = doJSON(t, h, http.MethodGet, base, nil, "")
	var got acctResp
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.BalanceMinor != 15000 {
		t.Fatalf("failed operations changed the balance: %d", got.BalanceMinor)
	}

	// valid withdrawal
	rec = doJSON(t, h, http.MethodPost, base+"/withdraw", map[string]any{"amount_minor": 2500}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("withdraw: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &bal)
	if bal.BalanceMinor != 12500 {
		t.Fatalf("expected balance 12500, got %d", bal.BalanceMinor)
	}
}

func TestDuplicateNameConflict(t *testing.T) {
	h := setup(t, nil)
	createAccount(t, h, "Alice", 10000, "pw")

	rec := doJSON(t, h, http.MethodPost, "/v1/accounts", map[string]any{
		"account_name":          "alice",
		"initial_deposit_minor": 0,
		"account_password":      "pw2",
	}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAccountValidation(t *testing.T) {
	h := setup(t, nil)
	cases := []map[string]any{
		{"account_name": "", "initial_deposit_minor": 0, "account_password": "pw"},
		{"account_name": "Bob", "initial_deposit_minor": -100, "account_password": "pw"},
		{"account_name": "Bob", "initial_deposit_minor": 0, "account_password": ""},
	}
	for i, body := range cases {
		rec := doJSON(t, h, http.MethodPost, "/v1/accounts", body, "")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("case %d: expected 422, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestDepositUnknownAccount(t *testing.T) {
	h := setup(t, nil)
	rec := doJSON(t, h, http.MethodPost, "/v1/accounts/0000000000/deposit", map[string]any{"amount_minor": 100}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoginAndProtectedRoutes(t *testing.T) {
	secret := []byte("test-secret")
	h := setup(t, secret)
	acc := createAccount(t, h, "Alice", 10000, "pw")
	base := "/v1/accounts/" + acc.AccountNumber

	// without a token the account routes are locked
	rec := doJSON(t, h, http.MethodGet, base, nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// wrong password
	rec = doJSON(t, h, http.MethodPost, "/v1/login", map[string]any{
		"account_number": acc.AccountNumber, "account_password": "nope",
	}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	// login
	rec = doJSON(t, h, http.MethodPost, "/v1/login", map[string]any{
		"account_number": acc.AccountNumber, "account_password": "pw",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var lr struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &lr)
	if lr.Token == "" {
		t.Fatal("expected a token")
	}

	// token unlocks the owner's routes
	rec = doJSON(t, h, http.MethodPost, base+"/deposit", map[string]any{"amount_minor": 500}, lr.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit with token: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// but not another account's
	other := createAccount(t, h, "Bob", 0, "pw2")
	rec = doJSON(t, h, http.MethodGet, "/v1/accounts/"+other.AccountNumber, nil, lr.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign account, got %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := setup(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, h, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
