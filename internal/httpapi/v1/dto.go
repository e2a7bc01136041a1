package v1

import "github.com/tinoosan/bank/internal/bank"

type createAccountRequest struct {
	AccountName         string `json:"account_name"`
	InitialDepositMinor int64  `json:"initial_deposit_minor"`
	AccountPassword     string `json:"account_password"`
}

// accountResponse is the clean account view: the credential hash never leaves
// the core.
type accountResponse struct {
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	BalanceMinor  int64  `json:"balance_minor"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}

type amountRequest struct {
	AmountMinor int64 `json:"amount_minor"`
}

type balanceResponse struct {
	AccountNumber string `json:"account_number"`
	BalanceMinor  int64  `json:"balance_minor"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}

type loginRequest struct {
	AccountNumber   string `json:"account_number"`
	AccountPassword string `json:"account_password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func toAccountResponse(a bank.Account) accountResponse {
	minor, _ := a.Balance.MinorUnits()
	return accountResponse{
		AccountNumber: a.Number,
		AccountName:   a.Name,
		BalanceMinor:  minor,
		Balance:       a.Balance.Decimal().String(),
		Currency:      a.Balance.Curr().Code(),
	}
}
