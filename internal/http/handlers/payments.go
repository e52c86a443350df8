package handlers

import (
	"net/http"
	"strings"

	"taskease/internal/domain"
)

type checkoutRequest struct {
	Plan    string `json:"plan"`
	PayerID string `json:"payerId"`
}

// signRequest names the order to re-sign. Params is the legacy form; its
// values are checked against the stored order.
type signRequest struct {
	OrderID string            `json:"orderId"`
	PayerID string            `json:"payerId"`
	Params  map[string]string `json:"params"`
}

type callbackRequest struct {
	OrderID   string `json:"orderId"`
	Code      string `json:"code"`
	Signature string `json:"signature"`
}

type callbackResponse struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
	Result  string             `json:"result"`
	Applied bool               `json:"applied"`
}

func (a *App) PaymentPlans(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"plans": a.Payments.Plans()})
}

func (a *App) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Payments.Checkout(r.Context(), a.currentUserID(r), req.Plan, req.PayerID)
	if err != nil {
		a.errorFrom(w, r, err, "checkout failed")
		return
	}
	a.json(w, http.StatusOK, res)
}

// PaymentSign re-signs one of the caller's pending orders so the merchant
// secrets stay on the server.
func (a *App) PaymentSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		req.OrderID = req.Params["orderId"]
	}
	if req.PayerID == "" {
		req.PayerID = req.Params["payerId"]
	}
	if req.OrderID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "orderId required")
		return
	}
	res, err := a.Payments.SignOrder(r.Context(), a.currentUserID(r), req.OrderID, req.PayerID, req.Params)
	if err != nil {
		a.errorFrom(w, r, err, "signing failed")
		return
	}
	a.json(w, http.StatusOK, res)
}

// PaymentCallback settles an order from the gateway's asynchronous result.
// It accepts JSON or form-encoded bodies.
func (a *App) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
			return
		}
		req = callbackRequest{
			OrderID:   r.PostForm.Get("orderId"),
			Code:      r.PostForm.Get("code"),
			Signature: r.PostForm.Get("signature"),
		}
	} else if !a.decode(w, r, &req) {
		return
	}
	if req.OrderID == "" || req.Code == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "orderId and code required")
		return
	}
	res, err := a.Payments.Settle(r.Context(), req.OrderID, req.Code, req.Signature)
	if err != nil {
		a.errorFrom(w, r, err, "settlement failed")
		return
	}
	a.json(w, http.StatusOK, callbackResponse{
		OrderID: res.Order.ID,
		Status:  res.Order.Status,
		Result:  res.Code.Label,
		Applied: res.Applied,
	})
}
