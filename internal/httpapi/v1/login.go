package v1

import "net/http"

// postLogin verifies credentials through the auth bridge and returns a
// session token.
func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil || len(s.secret) == 0 {
		writeErr(w, http.StatusServiceUnavailable, "login is disabled: no token secret configured", "login_disabled")
		return
	}
	v := r.Context().Value(ctxKeyLogin)
	req, ok := v.(loginRequest)
	if !ok {
		toJSON(w, http.StatusInternalServerError, errorResponse{Error: "validated request missing"})
		return
	}
	token, err := s.auth.Authenticate(r.Context(), req.AccountNumber, req.AccountPassword)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, loginResponse{Token: token})
}
