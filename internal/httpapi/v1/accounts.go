// Account handlers: create and fetch.
package v1

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/govalues/money"

	"github.com/tinoosan/bank/internal/auth"
)

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	v := r.Context().Value(ctxKeyCreateAccount)
	req, ok := v.(createAccountRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	deposit, err := money.NewAmountFromMinorUnits(s.currency, req.InitialDepositMinor)
	if err != nil {
		toJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid initial deposit"})
		return
	}
	// Hash outside the store's critical section.
	hash, err := auth.HashCredential(req.AccountPassword)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	acc, err := s.accounts.Create(r.Context(), req.AccountName, deposit, hash)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// getAccount handles GET /v1/accounts/{accountNumber}.
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "accountNumber")
	if !ownsAccount(r.Context(), number) {
		writeErr(w, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	acc, err := s.accounts.Get(r.Context(), number)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(acc))
}
