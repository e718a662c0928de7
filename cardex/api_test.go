package cardex_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"github.com/ForTeamEffect/kap-front/cardex"
	"github.com/ForTeamEffect/kap-front/cardex/metrics"
	"github.com/ForTeamEffect/kap-front/cardex/models"
)

type apiError struct {
	Error       string `json:"error"`
	Retryable   bool   `json:"retryable"`
	Remediation string `json:"remediation"`
	Flow        string `json:"flow"`
	Reason      string `json:"reason"`
}

func newTestRouter(t *testing.T) (chi.Router, *cardex.MemoryBackend) {
	t.Helper()
	backend := newDemoBackend()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := cardex.NewService(backend, cardex.DefaultConfig(), logger, metrics.New(prometheus.NewRegistry()))

	router := chi.NewRouter()
	cardex.NewAPI(svc).AppendRoutes(router)
	return router, backend
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

const demoPath = "/persons/" + cardex.DemoPersonID

func TestAPI_Overview(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodGet, demoPath+"/overview", "")
	require.Equal(t, http.StatusOK, w.Code)

	var overview cardex.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	require.Len(t, overview.Accounts, 2)
	require.Equal(t, "MXNT", overview.Currency)

	card, ok := overview.Card("card2")
	require.True(t, ok)
	require.Equal(t, []string{"VIEW_SENSITIVE_DATA", "ACTIVATE"}, card.Actions)

	w = do(router, http.MethodGet, "/persons/nobody/overview", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Access(t *testing.T) {
	router, backend := newTestRouter(t)
	backend.AddPerson(models.Person{ID: "newcomer", FullName: "New Comer"}, nil)

	w := do(router, http.MethodGet, "/persons/newcomer/access", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"access":"NEEDS_TIER"`)

	w = do(router, http.MethodPost, "/persons/newcomer/cards/card1/block", "")
	require.Equal(t, http.StatusForbidden, w.Code)
	e := decodeError(t, w)
	require.Equal(t, "access_denied", e.Error)
	require.Equal(t, "NEEDS_TIER", e.Remediation)
	require.Equal(t, "tier_verification", e.Flow)
}

func TestAPI_CardLifecycle(t *testing.T) {
	router, backend := newTestRouter(t)

	t.Run("initial block cannot be unblocked", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/cards/card2/unblock", "")
		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, "invalid_transition", decodeError(t, w).Error)
	})

	t.Run("activation with PIN mismatch", func(t *testing.T) {
		body := `{"cardId":"card2","pan":"5555666677775559","pin":"1234","pinConfirm":"4321"}`
		w := do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-activations", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("activation", func(t *testing.T) {
		body := `{"cardId":"card2","pan":"5555 6666 7777 5559","pin":"1234","pinConfirm":"1234"}`
		w := do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-activations", body)
		require.Equal(t, http.StatusOK, w.Code)

		pin, ok := backend.PIN("card2")
		require.True(t, ok)
		require.Equal(t, "1234", pin)
	})

	t.Run("block and unblock", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/cards/card2/block", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = do(router, http.MethodGet, demoPath+"/cards/card2/actions", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"card_id":"card2","available_actions":["VIEW_SENSITIVE_DATA","UNBLOCK","CHANGE_PIN"]}`, w.Body.String())

		w = do(router, http.MethodPost, demoPath+"/cards/card2/unblock", "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("change PIN of a virtual card", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/cards/card1/pin", `{"pin":"1111","pinConfirm":"1111"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Equal(t, "unsupported", decodeError(t, w).Error)
	})

	t.Run("sensitive data", func(t *testing.T) {
		w := do(router, http.MethodGet, demoPath+"/cards/card1/sensitive", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))

		var view cardex.SensitiveView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Equal(t, "4111222233331113", view.PAN)
		require.Contains(t, view.CardFace, "/")
	})
}

func TestAPI_PhysicalOrders(t *testing.T) {
	router, backend := newTestRouter(t)
	order := `{"cardholderName":"John Doe","address":{"addrCountryCode":"MX","addrCity":"CDMX","addrPostalCode":"12345","addrStreet":"Main St","addrNumber":"123"}}`

	t.Run("order already in progress", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/accounts/Business%20Account/physical-orders", order)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		e := decodeError(t, w)
		require.Equal(t, "order_denied", e.Error)
		require.Equal(t, "ORDER_PENDING", e.Reason)
	})

	t.Run("missing address fields", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-orders", `{"cardholderName":"John Doe"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	var cardID string
	t.Run("order and fulfil", func(t *testing.T) {
		w := do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-orders", order)
		require.Equal(t, http.StatusAccepted, w.Code)

		card, err := backend.FulfilPhysicalOrder(cardex.DemoPersonID, "Personal Account")
		require.NoError(t, err)
		cardID = card.ID
	})

	t.Run("new card is in manufacturing", func(t *testing.T) {
		body := `{"cardId":"` + cardID + `","pan":"4242424242424242","pin":"1234","pinConfirm":"1234"}`
		w := do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-activations", body)
		require.Equal(t, http.StatusConflict, w.Code)
		e := decodeError(t, w)
		require.Equal(t, "not_ready", e.Error)
		require.True(t, e.Retryable)

		w = do(router, http.MethodPost, demoPath+"/accounts/Personal%20Account/physical-orders", order)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.Equal(t, "CARD_IN_MANUFACTURING", decodeError(t, w).Reason)
	})
}

func TestAPI_Accounts(t *testing.T) {
	router, _ := newTestRouter(t)

	w := do(router, http.MethodPost, demoPath+"/accounts", `{"account_name":"Savings"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, demoPath+"/accounts", `{"account_name":"savings"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "duplicate_account_name", decodeError(t, w).Error)

	w = do(router, http.MethodPatch, demoPath+"/accounts/Savings", `{"account_name":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPatch, demoPath+"/accounts/Savings", `{"account_name":"Holidays"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPost, demoPath+"/accounts/Holidays/virtual-cards", `{"cardholder_name":"John Doe"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, demoPath+"/accounts", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
