// Transaction handlers: deposit and withdraw.
package v1

import (
	"context"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/govalues/money"
)

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.mutateBalance(w, r, s.tx.Deposit)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.mutateBalance(w, r, s.tx.Withdraw)
}

// mutateBalance runs the shared request plumbing for both balance operations.
func (s *Server) mutateBalance(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, number string, amount money.Amount) (money.Amount, error)) {
	number := chi.URLParam(r, "accountNumber")
	if !ownsAccount(r.Context(), number) {
		writeErr(w, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	v := r.Context().Value(ctxKeyAmount)
	req, ok := v.(amountRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	amount, err := money.NewAmountFromMinorUnits(s.currency, req.AmountMinor)
	if err != nil {
		toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid amount"})
		return
	}
	balance, err := op(r.Context(), number, amount)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	minor, _ := balance.MinorUnits()
	toJSON(w, http.StatusOK, balanceResponse{
		AccountNumber: number,
		BalanceMinor:  minor,
		Balance:       balance.Decimal().String(),
		Currency:      balance.Curr().Code(),
	})
}
