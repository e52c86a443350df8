// Package payment builds signed checkout redirects to the hosted payment
// page and settles the gateway's asynchronous results against the ledger.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/ledger"
)

// Options carries the gateway settings read from the environment.
type Options struct {
	PageURL        string
	Currency       string
	FXRate         float64
	MaxAmount      float64
	PayerDigits    int
	CallbackSecret string
	Logger         zerolog.Logger
	Metrics        *infra.Metrics
}

// CheckoutResult is what the client needs to redirect the user.
type CheckoutResult struct {
	OrderID     string  `json:"orderId"`
	RedirectURL string  `json:"redirectUrl"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// SettleResult describes the outcome of one callback.
type SettleResult struct {
	Order   *domain.PaymentOrder
	Code    Verification
	Applied bool
}

type Service struct {
	catalog *Catalog
	signer  Signer
	orders  domain.PaymentRepository
	ledger  *ledger.Service
	opts    Options
	newID   func() string
}

func NewService(catalog *Catalog, signer Signer, orders domain.PaymentRepository, l *ledger.Service, opts Options) *Service {
	if opts.PayerDigits <= 0 {
		opts.PayerDigits = 11
	}
	if opts.FXRate <= 0 {
		opts.FXRate = 1
	}
	opts.Currency = strings.ToUpper(strings.TrimSpace(opts.Currency))
	return &Service{
		catalog: catalog,
		signer:  signer,
		orders:  orders,
		ledger:  l,
		opts:    opts,
		newID:   uuid.NewString,
	}
}

func (s *Service) Plans() []Plan {
	return s.catalog.Plans()
}

// Checkout builds the order, has it signed and returns the redirect URL.
func (s *Service) Checkout(ctx context.Context, userID, planID, payerID string) (*CheckoutResult, error) {
	plan, ok := s.catalog.Plan(planID)
	if !ok {
		return nil, domain.Invalid("plan", "unknown plan")
	}
	payer, err := NormalizePayerID(payerID, s.opts.PayerDigits)
	if err != nil {
		return nil, err
	}
	amount := ConvertAmount(plan.Price, s.opts.FXRate)
	if err := ValidateAmount(amount, s.opts.MaxAmount); err != nil {
		return nil, err
	}

	order := &domain.PaymentOrder{
		ID:       s.newID(),
		UserID:   userID,
		PlanID:   plan.ID,
		Amount:   amount,
		Currency: s.opts.Currency,
		Status:   domain.OrderPending,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.opts.Metrics.Payment("build", "error")
		return nil, &domain.PaymentError{Stage: "build", Err: err}
	}

	params := orderParams(order, plan, payer)
	signature, err := s.sign(ctx, params)
	if err != nil {
		if _, terr := s.orders.Transition(context.WithoutCancel(ctx), order.ID, domain.OrderPending, domain.OrderFailed, ""); terr != nil {
			s.opts.Logger.Error().Err(terr).Str("order_id", order.ID).Msg("failed to close unsigned order")
		}
		return nil, err
	}

	redirect, err := buildRedirectURL(s.opts.PageURL, params, signature)
	if err != nil {
		s.opts.Metrics.Payment("redirect", "error")
		return nil, &domain.PaymentError{Stage: "redirect", Err: err}
	}
	s.opts.Metrics.Payment("checkout", "ok")
	s.opts.Logger.Info().Str("order_id", order.ID).Str("user_id", userID).Str("plan", plan.ID).Float64("amount", amount).Msg("checkout created")
	return &CheckoutResult{
		OrderID:     order.ID,
		RedirectURL: redirect,
		Amount:      amount,
		Currency:    order.Currency,
	}, nil
}

// SignedOrder is a signature over the parameters rebuilt from a stored order.
type SignedOrder struct {
	OrderID   string            `json:"orderId"`
	Params    map[string]string `json:"params"`
	Signature string            `json:"signature"`
}

// SignOrder re-signs a pending order owned by userID. The parameters come
// from the stored order; any value in claimed must match them exactly.
func (s *Service) SignOrder(ctx context.Context, userID, orderID, payerID string, claimed map[string]string) (*SignedOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.Invalid("orderId", "orderId is required")
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrNotFound
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if order.Status != domain.OrderPending {
		return nil, domain.Invalid("orderId", "order is no longer pending")
	}
	plan, ok := s.catalog.Plan(order.PlanID)
	if !ok {
		return nil, domain.Invalid("plan", "unknown plan")
	}
	payer, err := NormalizePayerID(payerID, s.opts.PayerDigits)
	if err != nil {
		return nil, err
	}
	if err := ValidateAmount(order.Amount, s.opts.MaxAmount); err != nil {
		return nil, err
	}
	params := orderParams(order, plan, payer)
	for k, v := range claimed {
		want, known := params[k]
		if !known {
			return nil, domain.Invalid(k, "unexpected parameter")
		}
		if k == "payerId" {
			continue
		}
		if strings.TrimSpace(v) != want {
			s.opts.Logger.Warn().Str("order_id", order.ID).Str("user_id", userID).Str("param", k).Msg("sign request does not match order")
			return nil, domain.Invalid(k, "does not match the order")
		}
	}
	signature, err := s.sign(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SignedOrder{OrderID: order.ID, Params: params, Signature: signature}, nil
}

// sign forwards params to the signer. Every failure surfaces as SignatureError.
func (s *Service) sign(ctx context.Context, params map[string]string) (string, error) {
	sig, err := s.signer.Sign(ctx, params)
	if err != nil {
		s.opts.Metrics.Payment("sign", "error")
		var sErr *domain.SignatureError
		if errors.As(err, &sErr) {
			return "", err
		}
		return "", &domain.SignatureError{Err: err}
	}
	s.opts.Metrics.Payment("sign", "ok")
	return sig, nil
}

func orderParams(order *domain.PaymentOrder, plan Plan, payer string) map[string]string {
	return map[string]string{
		"orderId":     order.ID,
		"amount":      strconv.FormatFloat(order.Amount, 'f', 2, 64),
		"currency":    order.Currency,
		"description": "TaskEase " + plan.Name,
		"payerId":     payer,
	}
}

// Settle applies a gateway callback. Settlement moves the order out of
// pending exactly once; replays return Applied=false.
func (s *Service) Settle(ctx context.Context, orderID, code, signature string) (*SettleResult, error) {
	orderID = strings.TrimSpace(orderID)
	code = strings.TrimSpace(code)
	if !VerifyCallback(s.opts.CallbackSecret, orderID, code, signature) {
		s.opts.Metrics.Payment("callback", "rejected")
		return nil, &domain.PaymentError{Stage: "callback", Err: fmt.Errorf("%w: callback signature mismatch", domain.ErrForbidden)}
	}
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, domain.ErrNotFound
	}
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	verdict := Verify(code)
	if order.Status != domain.OrderPending {
		return &SettleResult{Order: order, Code: verdict}, nil
	}

	if !verdict.Success {
		failed, err := s.orders.Transition(ctx, orderID, domain.OrderPending, domain.OrderFailed, code)
		if errors.Is(err, domain.ErrOrderClosed) {
			return s.replay(ctx, orderID, verdict)
		}
		if err != nil {
			return nil, &domain.PaymentError{Stage: "settle", Err: err}
		}
		s.opts.Metrics.Payment("settle", "declined")
		s.opts.Logger.Info().Str("order_id", orderID).Str("code", code).Msg("payment declined")
		return &SettleResult{Order: failed, Code: verdict}, nil
	}

	plan, ok := s.catalog.Plan(order.PlanID)
	if !ok {
		return nil, &domain.PaymentError{Stage: "settle", Err: fmt.Errorf("plan %q no longer exists", order.PlanID)}
	}
	settled, err := s.orders.Transition(ctx, orderID, domain.OrderPending, domain.OrderSettled, code)
	if errors.Is(err, domain.ErrOrderClosed) {
		return s.replay(ctx, orderID, verdict)
	}
	if err != nil {
		return nil, &domain.PaymentError{Stage: "settle", Err: err}
	}
	if err := s.apply(ctx, order.UserID, plan); err != nil {
		// Reopen the order so a redelivered callback can retry.
		if _, rerr := s.orders.Transition(context.WithoutCancel(ctx), orderID, domain.OrderSettled, domain.OrderPending, ""); rerr != nil {
			s.opts.Logger.Error().Err(rerr).Str("order_id", orderID).Msg("failed to reopen order")
		}
		s.opts.Metrics.Payment("settle", "error")
		return nil, &domain.PaymentError{Stage: "settle", Err: err}
	}
	s.opts.Metrics.Payment("settle", "ok")
	s.opts.Logger.Info().Str("order_id", orderID).Str("user_id", order.UserID).Str("plan", plan.ID).Str("code", verdict.Label).Msg("payment settled")
	return &SettleResult{Order: settled, Code: verdict, Applied: true}, nil
}

func (s *Service) apply(ctx context.Context, userID string, plan Plan) error {
	switch plan.Kind {
	case domain.PlanSubscription:
		_, err := s.ledger.SetSubscription(ctx, userID, true)
		return err
	case domain.PlanCredits:
		_, err := s.ledger.Grant(ctx, userID, plan.Credits)
		return err
	default:
		return fmt.Errorf("unknown plan kind %q", plan.Kind)
	}
}

func (s *Service) replay(ctx context.Context, orderID string, verdict Verification) (*SettleResult, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &SettleResult{Order: order, Code: verdict}, nil
}

func buildRedirectURL(page string, params map[string]string, signature string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(page))
	if err != nil {
		return "", err
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("payment page url must be absolute, got %q", page)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	q.Set("signature", signature)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
