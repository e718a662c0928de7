package cardex

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/internal/cardgen"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

// API is a HTTP API for the CardEx service
type API struct {
	cardex *Service
}

func NewAPI(cardex *Service) *API {
	return &API{
		cardex: cardex,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/persons/{personID}", func(r chi.Router) {
		r.Get("/overview", a.getOverview)
		r.Get("/access", a.getAccess)
		r.Post("/accounts", a.createAccount)
		r.Route("/accounts/{account}", func(r chi.Router) {
			r.Patch("/", a.renameAccount)
			r.Post("/virtual-cards", a.replaceVirtualCard)
			r.Post("/physical-orders", a.orderPhysicalCard)
			r.Post("/physical-activations", a.activatePhysicalCard)
		})
		r.Route("/cards/{cardID}", func(r chi.Router) {
			r.Get("/actions", a.getCardActions)
			r.Post("/block", a.blockCard)
			r.Post("/unblock", a.unblockCard)
			r.Post("/pin", a.changePIN)
			r.Get("/sensitive", a.getSensitiveData)
		})
	})
}

func (a *API) getOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := a.cardex.Overview(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) getAccess(w http.ResponseWriter, r *http.Request) {
	state, err := a.cardex.Access(r.Context(), chi.URLParam(r, "personID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Access      policy.AccessState `json:"access"`
		Remediation string             `json:"remediation,omitempty"`
		Message     string             `json:"message,omitempty"`
	}{state, state.Flow(), state.Message()})
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountName string `json:"account_name"`
	}
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.CreateAccount(r.Context(), chi.URLParam(r, "personID"), body.AccountName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, overview)
}

func (a *API) renameAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccountName string `json:"account_name"`
	}
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.RenameAccount(r.Context(), chi.URLParam(r, "personID"), accountParam(r), body.AccountName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) replaceVirtualCard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CardholderName string `json:"cardholder_name"`
	}
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.ReplaceVirtualCard(r.Context(), chi.URLParam(r, "personID"), accountParam(r), body.CardholderName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, overview)
}

func (a *API) orderPhysicalCard(w http.ResponseWriter, r *http.Request) {
	var body OrderRequest
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.OrderPhysicalCard(r.Context(), chi.URLParam(r, "personID"), accountParam(r), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, overview)
}

func (a *API) activatePhysicalCard(w http.ResponseWriter, r *http.Request) {
	var body ActivationRequest
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.ActivatePhysicalCard(r.Context(), chi.URLParam(r, "personID"), accountParam(r), body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) getCardActions(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "cardID")
	actions, err := a.cardex.CardActions(r.Context(), chi.URLParam(r, "personID"), cardID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		CardID  string   `json:"card_id"`
		Actions []string `json:"available_actions"`
	}{cardID, actions.Strings()})
}

func (a *API) blockCard(w http.ResponseWriter, r *http.Request) {
	overview, err := a.cardex.BlockCard(r.Context(), chi.URLParam(r, "personID"), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) unblockCard(w http.ResponseWriter, r *http.Request) {
	overview, err := a.cardex.UnblockCard(r.Context(), chi.URLParam(r, "personID"), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) changePIN(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PIN        string `json:"pin"`
		PINConfirm string `json:"pinConfirm"`
	}
	if !decode(w, r, &body) {
		return
	}
	overview, err := a.cardex.ChangePIN(r.Context(), chi.URLParam(r, "personID"), chi.URLParam(r, "cardID"), body.PIN, body.PINConfirm)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (a *API) getSensitiveData(w http.ResponseWriter, r *http.Request) {
	view, err := a.cardex.ViewSensitiveData(r.Context(), chi.URLParam(r, "personID"), chi.URLParam(r, "cardID"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, view)
}

func accountParam(r *http.Request) string {
	raw := chi.URLParam(r, "account")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
		return false
	}
	return true
}

// writeJSON encodes v before the status line goes out, so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: "internal", Message: fmt.Sprintf("encoding response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

type errorResponse struct {
	Error       string           `json:"error"`
	Message     string           `json:"message"`
	Retryable   bool             `json:"retryable,omitempty"`
	Remediation string           `json:"remediation,omitempty"`
	Flow        string           `json:"flow,omitempty"`
	Reason      string           `json:"reason,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// writeError maps service errors to HTTP statuses. Policy errors come first so
// a denial is never reported as a generic failure.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Message: err.Error()}
	status := http.StatusInternalServerError

	var (
		accessDenied *policy.AccessDeniedError
		orderDenied  *policy.OrderDeniedError
	)
	switch {
	case errors.As(err, &accessDenied):
		status, resp.Error = http.StatusForbidden, "access_denied"
		resp.Remediation = string(accessDenied.Remediation)
		resp.Flow = accessDenied.Remediation.Flow()
		resp.Message = accessDenied.Remediation.Message()
	case errors.As(err, &orderDenied):
		status, resp.Error = http.StatusUnprocessableEntity, "order_denied"
		resp.Reason = string(orderDenied.Reason)
		resp.Message = orderDenied.Reason.Message()
		if orderDenied.Reason == policy.DenialInsufficientFunds {
			resp.Balance, resp.Price = &orderDenied.Balance, &orderDenied.Price
		}
	case errors.Is(err, policy.ErrInvalidTransition):
		status, resp.Error = http.StatusConflict, "invalid_transition"
	case errors.Is(err, policy.ErrNotReady):
		status, resp.Error = http.StatusConflict, "not_ready"
		resp.Retryable = policy.Retryable(err)
	case errors.Is(err, policy.ErrUnsupported):
		status, resp.Error = http.StatusUnprocessableEntity, "unsupported"
	case errors.Is(err, policy.ErrDuplicateAccountName):
		status, resp.Error = http.StatusConflict, "duplicate_account_name"
	case errors.Is(err, ErrValidation),
		errors.Is(err, policy.ErrInvalidAccountName),
		errors.Is(err, policy.ErrCardholderNameRequired),
		errors.Is(err, cardgen.ErrPANMismatch):
		status, resp.Error = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, ErrInsufficientFunds):
		status, resp.Error = http.StatusPaymentRequired, "insufficient_funds"
	case errors.Is(err, ErrNotFound):
		status, resp.Error = http.StatusNotFound, "not_found"
	default:
		resp.Error = "internal"
	}
	writeJSON(w, status, resp)
}
