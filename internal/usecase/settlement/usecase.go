package settlement

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"amerilend-backend/internal/domain/activity"
	domainApp "amerilend-backend/internal/domain/application"
	"amerilend-backend/internal/domain/gateway"
	"amerilend-backend/internal/domain/notify"
	"amerilend-backend/internal/domain/payment"
	"amerilend-backend/internal/domain/uow"
	appusecase "amerilend-backend/internal/usecase/application"
)

// DefaultThresholds is the per-currency confirmation count required before a
// crypto payment is treated as settled. Stable-value tokens settle on one
// confirmation; base-layer coins need more.
var DefaultThresholds = map[string]int{
	"BTC":  3,
	"ETH":  12,
	"USDT": 1,
	"USDC": 1,
}

const gatewayTimeout = 30 * time.Second

var (
	reEthTxHash = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	reBtcTxHash = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
)

// Usecase coordinates the card and crypto rails into one per-payment state
// machine and drives the owning application's fee transitions. The external
// call always happens before the local commit: the gateway/chain is the
// source of truth for "did money move".
type Usecase struct {
	uow        uow.UnitOfWork
	payments   payment.Repository
	apps       domainApp.Repository
	cards      gateway.CardGateway
	chain      gateway.ChainSource
	rates      gateway.RateSource
	thresholds map[string]int
	applicants notify.ApplicantNotifier
}

func NewUsecase(tx uow.UnitOfWork, payments payment.Repository, apps domainApp.Repository,
	cards gateway.CardGateway, chain gateway.ChainSource, rates gateway.RateSource,
	applicants notify.ApplicantNotifier) *Usecase {
	return &Usecase{
		uow:        tx,
		payments:   payments,
		apps:       apps,
		cards:      cards,
		chain:      chain,
		rates:      rates,
		thresholds: DefaultThresholds,
		applicants: applicants,
	}
}

// WithThresholds overrides the confirmation thresholds (tests, staging).
func (u *Usecase) WithThresholds(t map[string]int) *Usecase {
	u.thresholds = t
	return u
}

// CreateIntent starts a payment attempt for an application's frozen
// processing fee. Card attempts capture synchronously and settle in one
// call; crypto attempts return a per-attempt deposit address and the amount
// at the current rate snapshot.
func (u *Usecase) CreateIntent(ctx context.Context, in CreateIntentInput) (*Intent, error) {
	a, err := u.apps.GetByID(ctx, in.ApplicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainApp.ErrNotFound
		}
		return nil, err
	}
	if (a.Status != domainApp.StatusApproved && a.Status != domainApp.StatusFeePending) || a.ProcessingFeeCents == nil {
		return nil, ErrNotPayable
	}
	amount := *a.ProcessingFeeCents

	switch in.Method {
	case payment.MethodCard:
		if in.OpaqueDataDescriptor == "" || in.OpaqueDataValue == "" {
			return nil, fmt.Errorf("%w: missing tokenized card data", domainApp.ErrValidation)
		}
		return u.captureCard(ctx, a, amount, in)
	case payment.MethodCrypto:
		cur := strings.ToUpper(strings.TrimSpace(in.CryptoCurrency))
		if _, ok := u.thresholds[cur]; !ok {
			return nil, fmt.Errorf("%w: unsupported crypto currency %q", domainApp.ErrValidation, in.CryptoCurrency)
		}
		return u.createCryptoIntent(ctx, a, amount, cur, in.UserID)
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", domainApp.ErrValidation, in.Method)
	}
}

func (u *Usecase) captureCard(ctx context.Context, a *domainApp.Application, amount int64, in CreateIntentInput) (*Intent, error) {
	// The capture must survive a client disconnect; its outcome is recorded
	// regardless of whether the HTTP caller is still listening.
	capCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout)
	defer cancel()

	res, err := u.cards.Capture(capCtx, gateway.CardCapture{
		AmountCents:    amount,
		DataDescriptor: in.OpaqueDataDescriptor,
		DataValue:      in.OpaqueDataValue,
		Description:    "Loan processing fee " + a.TrackingNumber,
	})
	if errors.Is(err, gateway.ErrDeclined) {
		p := &payment.Payment{
			LoanApplicationID: a.ID,
			UserID:            in.UserID,
			AmountCents:       amount,
			Method:            payment.MethodCard,
			Provider:          payment.ProviderAuthorizeNet,
			Status:            payment.StatusFailed,
			FailureReason:     err.Error(),
		}
		if werr := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if cerr := r.Payments.Create(ctx, p); cerr != nil {
				return cerr
			}
			return appendPaymentLog(ctx, r.Activities, in.UserID, "card_payment_declined", p.ID, map[string]any{
				"application_id": a.ID,
				"reason":         err.Error(),
			})
		}); werr != nil {
			return nil, werr
		}
		return &Intent{
			PaymentID:   p.ID,
			Status:      payment.StatusFailed,
			Method:      payment.MethodCard,
			AmountCents: amount,
			Retryable:   true,
			Message:     err.Error(),
		}, nil
	}
	if err != nil {
		// Transient: nothing was recorded, the caller may retry.
		return nil, fmt.Errorf("card gateway: %w", err)
	}

	// Card capture is synchronous truth: pending -> confirmed in one step.
	var out *Intent
	err = u.uow.WithinApplicationTx(ctx, a.ID, func(r uow.Repos, locked *domainApp.Application) error {
		now := time.Now().UTC()
		p := &payment.Payment{
			LoanApplicationID: locked.ID,
			UserID:            in.UserID,
			AmountCents:       amount,
			Method:            payment.MethodCard,
			Provider:          payment.ProviderAuthorizeNet,
			ProviderRef:       res.ProviderRef,
			CardLast4:         res.CardLast4,
			CardBrand:         res.CardBrand,
			Status:            payment.StatusConfirmed,
			CompletedAt:       &now,
		}
		if locked.Status == domainApp.StatusFeePaid {
			// Another attempt settled while the gateway call was in flight.
			// Money moved; record it, but the application invariant keeps a
			// single confirmed payment, so this one lands failed for refund.
			p.Status = payment.StatusFailed
			p.CompletedAt = nil
			p.FailureReason = "processing fee already settled by another payment"
		}
		if cerr := r.Payments.Create(ctx, p); cerr != nil {
			return cerr
		}
		if lerr := appendPaymentLog(ctx, r.Activities, in.UserID, "card_payment_captured", p.ID, map[string]any{
			"application_id": locked.ID,
			"provider_ref":   res.ProviderRef,
		}); lerr != nil {
			return lerr
		}
		if p.Status == payment.StatusConfirmed {
			if terr := appusecase.ApplyFeePaid(ctx, r, locked, in.UserID, p.ID); terr != nil {
				return terr
			}
		}
		out = &Intent{
			PaymentID:   p.ID,
			Status:      p.Status,
			Method:      payment.MethodCard,
			AmountCents: amount,
			ProviderRef: res.ProviderRef,
			Message:     p.FailureReason,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Status == payment.StatusConfirmed {
		u.notifyFeePaid(ctx, a)
	}
	return out, nil
}

func (u *Usecase) createCryptoIntent(ctx context.Context, a *domainApp.Application, amount int64, currency string, userID uint64) (*Intent, error) {
	cryptoAmount, err := u.rates.Convert(ctx, amount, currency)
	if err != nil {
		return nil, fmt.Errorf("rate source: %w", err)
	}
	address := newDepositAddress(currency)

	var out *Intent
	err = u.uow.WithinApplicationTx(ctx, a.ID, func(r uow.Repos, locked *domainApp.Application) error {
		if locked.Status != domainApp.StatusApproved && locked.Status != domainApp.StatusFeePending {
			return ErrNotPayable
		}
		p := &payment.Payment{
			LoanApplicationID: locked.ID,
			UserID:            userID,
			AmountCents:       amount,
			Method:            payment.MethodCrypto,
			Provider:          payment.ProviderCrypto,
			ProviderRef:       "charge_" + uuid.NewString(),
			CryptoCurrency:    currency,
			CryptoAddress:     address,
			CryptoAmount:      cryptoAmount,
			Status:            payment.StatusPending,
		}
		if cerr := r.Payments.Create(ctx, p); cerr != nil {
			return cerr
		}
		if lerr := appendPaymentLog(ctx, r.Activities, userID, "crypto_payment_initiated", p.ID, map[string]any{
			"application_id": locked.ID,
			"currency":       currency,
			"crypto_amount":  cryptoAmount,
		}); lerr != nil {
			return lerr
		}
		if locked.Status == domainApp.StatusApproved {
			if terr := appusecase.ApplyFeePending(ctx, r, locked, userID, p.ID); terr != nil {
				return terr
			}
		}
		out = &Intent{
			PaymentID:      p.ID,
			Status:         p.Status,
			Method:         payment.MethodCrypto,
			AmountCents:    amount,
			ProviderRef:    p.ProviderRef,
			CryptoCurrency: currency,
			CryptoAddress:  address,
			CryptoAmount:   cryptoAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyCrypto records a submitted transaction hash, asks the chain source
// about it and advances the payment. Confirmations below threshold keep the
// payment verifying and tell the caller to keep polling; only definitive
// mismatches fail it. Safe to call concurrently: the terminal transition
// re-checks persisted state under the application row lock.
func (u *Usecase) VerifyCrypto(ctx context.Context, in VerifyCryptoInput) (*CryptoVerification, error) {
	p, err := u.getPayment(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if p.Method != payment.MethodCrypto {
		return nil, ErrNotCrypto
	}
	if p.Status == payment.StatusConfirmed {
		return u.view(p, true, "payment already confirmed"), nil
	}
	if p.Status == payment.StatusFailed {
		return u.view(p, false, p.FailureReason), nil
	}

	txHash := strings.TrimSpace(in.TxHash)
	if !validTxHash(p.CryptoCurrency, txHash) {
		return nil, fmt.Errorf("%w: malformed transaction hash", domainApp.ErrValidation)
	}

	// A submitted proof moves the payment to verifying before we ask the
	// chain anything, so a concurrent poller sees the hash.
	if err := u.recordHash(ctx, in, txHash); err != nil {
		return nil, err
	}

	vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout)
	defer cancel()
	v, err := u.chain.Verify(vctx, gateway.TxQuery{
		Currency: p.CryptoCurrency,
		TxHash:   txHash,
		Address:  p.CryptoAddress,
		Amount:   p.CryptoAmount,
	})
	switch {
	case errors.Is(err, gateway.ErrTxNotFound):
		return u.fail(ctx, in.PaymentID, in.ActorID, "transaction not found on chain")
	case err != nil:
		// Transient chain trouble leaves the payment verifying for a retry.
		return nil, fmt.Errorf("chain source: %w", err)
	}

	switch {
	case v.TxFailed:
		return u.fail(ctx, in.PaymentID, in.ActorID, "transaction failed on chain")
	case !v.RecipientOK:
		return u.fail(ctx, in.PaymentID, in.ActorID, "transaction recipient does not match the payment address")
	case !v.AmountOK:
		return u.fail(ctx, in.PaymentID, in.ActorID, "transaction amount is below the expected amount")
	}

	required := u.thresholds[p.CryptoCurrency]
	if v.Confirmations < required {
		if err := u.recordConfirmations(ctx, in.PaymentID, v.Confirmations); err != nil {
			return nil, err
		}
		return &CryptoVerification{
			PaymentID:     p.ID,
			Status:        payment.StatusVerifying,
			Confirmed:     false,
			Confirmations: v.Confirmations,
			Required:      required,
			Message:       fmt.Sprintf("%d/%d confirmations, keep polling", v.Confirmations, required),
		}, nil
	}

	settled, err := u.settle(ctx, in.PaymentID, in.ActorID, v.Confirmations)
	if err != nil {
		return nil, err
	}
	if settled.Status == payment.StatusFailed {
		return u.view(settled, false, settled.FailureReason), nil
	}
	return u.view(settled, true, fmt.Sprintf("confirmed with %d confirmations", settled.ConfirmationsSeen)), nil
}

// Confirm force-settles a crypto payment (admin action; the original system
// exposes this for support cases where the chain source lags).
func (u *Usecase) Confirm(ctx context.Context, paymentID, actorID uint64) (*CryptoVerification, error) {
	p, err := u.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Method != payment.MethodCrypto {
		return nil, ErrNotCrypto
	}
	if p.Status == payment.StatusFailed {
		return nil, domainApp.ErrInvalidTransition
	}
	settled, err := u.settle(ctx, paymentID, actorID, p.ConfirmationsSeen)
	if err != nil {
		return nil, err
	}
	if settled.Status == payment.StatusFailed {
		return u.view(settled, false, settled.FailureReason), nil
	}
	return u.view(settled, true, "payment confirmed"), nil
}

// Status reports the current settlement state of a payment.
func (u *Usecase) Status(ctx context.Context, paymentID uint64) (*payment.Payment, error) {
	return u.getPayment(ctx, paymentID)
}

func (u *Usecase) getPayment(ctx context.Context, id uint64) (*payment.Payment, error) {
	p, err := u.payments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (u *Usecase) recordHash(ctx context.Context, in VerifyCryptoInput, txHash string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByIDForUpdate(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			return nil
		}
		if p.Status == payment.StatusVerifying && p.CryptoTxHash == txHash {
			return nil
		}
		p.CryptoTxHash = txHash
		p.Status = payment.StatusVerifying
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		return appendPaymentLog(ctx, r.Activities, in.ActorID, "crypto_hash_submitted", p.ID, map[string]any{
			"tx_hash": txHash,
		})
	})
}

func (u *Usecase) recordConfirmations(ctx context.Context, paymentID uint64, confirmations int) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Status.Terminal() || confirmations <= p.ConfirmationsSeen {
			return nil
		}
		p.ConfirmationsSeen = confirmations
		return r.Payments.Save(ctx, p)
	})
}

// settle marks the payment confirmed and the application fee_paid in one
// locked transaction. A second settle for the same payment, or a concurrent
// one racing it, observes the terminal state and changes nothing. A settle
// for a different payment on an already fee_paid application fails that
// payment instead: at most one payment per application may confirm.
func (u *Usecase) settle(ctx context.Context, paymentID, actorID uint64, confirmations int) (*payment.Payment, error) {
	p, err := u.getPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	var out *payment.Payment
	var notifyApp *domainApp.Application
	err = u.uow.WithinApplicationTx(ctx, p.LoanApplicationID, func(r uow.Repos, locked *domainApp.Application) error {
		pp, err := r.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if pp.Status == payment.StatusConfirmed {
			out = pp
			return nil
		}
		if pp.Status == payment.StatusFailed {
			return domainApp.ErrInvalidTransition
		}
		if locked.Status == domainApp.StatusFeePaid {
			// Another payment already settled the fee. Money may have moved
			// on chain; record the attempt, but the application keeps a
			// single confirmed payment, so this one lands failed for refund.
			pp.Status = payment.StatusFailed
			pp.FailureReason = "processing fee already settled by another payment"
			if confirmations > pp.ConfirmationsSeen {
				pp.ConfirmationsSeen = confirmations
			}
			if err := r.Payments.Save(ctx, pp); err != nil {
				return err
			}
			details := map[string]any{
				"application_id": locked.ID,
				"reason":         pp.FailureReason,
			}
			if prior, perr := r.Payments.GetConfirmedByApplicationID(ctx, locked.ID); perr == nil {
				details["settled_by_payment_id"] = prior.ID
			}
			out = pp
			return appendPaymentLog(ctx, r.Activities, actorID, "crypto_payment_failed", pp.ID, details)
		}
		now := time.Now().UTC()
		pp.Status = payment.StatusConfirmed
		if confirmations > pp.ConfirmationsSeen {
			pp.ConfirmationsSeen = confirmations
		}
		pp.CompletedAt = &now
		if err := r.Payments.Save(ctx, pp); err != nil {
			return err
		}
		if err := appendPaymentLog(ctx, r.Activities, actorID, "payment_confirmed", pp.ID, map[string]any{
			"application_id": locked.ID,
			"confirmations":  pp.ConfirmationsSeen,
		}); err != nil {
			return err
		}
		if err := appusecase.ApplyFeePaid(ctx, r, locked, actorID, pp.ID); err != nil {
			return err
		}
		out = pp
		notifyApp = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	if notifyApp != nil {
		u.notifyFeePaid(ctx, notifyApp)
	}
	return out, nil
}

func (u *Usecase) fail(ctx context.Context, paymentID, actorID uint64, reason string) (*CryptoVerification, error) {
	var out *payment.Payment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			out = p
			return nil
		}
		p.Status = payment.StatusFailed
		p.FailureReason = reason
		if err := r.Payments.Save(ctx, p); err != nil {
			return err
		}
		out = p
		return appendPaymentLog(ctx, r.Activities, actorID, "crypto_payment_failed", p.ID, map[string]any{
			"reason": reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return u.view(out, out.Status == payment.StatusConfirmed, reason), nil
}

func (u *Usecase) view(p *payment.Payment, confirmed bool, msg string) *CryptoVerification {
	return &CryptoVerification{
		PaymentID:     p.ID,
		Status:        p.Status,
		Confirmed:     confirmed,
		Confirmations: p.ConfirmationsSeen,
		Required:      u.thresholds[p.CryptoCurrency],
		Message:       msg,
	}
}

func (u *Usecase) notifyFeePaid(ctx context.Context, a *domainApp.Application) {
	if u.applicants == nil {
		return
	}
	err := u.applicants.NotifyApplicant(ctx, notify.ApplicationEvent{
		ApplicationID:  a.ID,
		TrackingNumber: a.TrackingNumber,
		Status:         domainApp.StatusFeePaid,
		FullName:       a.FullName,
		Email:          a.Email,
		Detail:         "processing fee received",
	})
	if err != nil {
		log.Printf("notify: fee paid for application %d: %v", a.ID, err)
	}
}

func validTxHash(currency, hash string) bool {
	if currency == "BTC" {
		return reBtcTxHash.MatchString(hash)
	}
	return reEthTxHash.MatchString(hash)
}

// newDepositAddress generates the per-attempt deposit address. Real wallet
// derivation lives in the custody system; the format matches what it hands
// out.
func newDepositAddress(currency string) string {
	if currency == "BTC" {
		return "bc1q" + randomHex(19)
	}
	return "0x" + randomHex(20)
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func appendPaymentLog(ctx context.Context, logs activity.Repository, actorID uint64, action string, paymentID uint64, details map[string]any) error {
	var detailsJSON string
	if details != nil {
		b, _ := json.Marshal(details)
		detailsJSON = string(b)
	}
	return logs.Append(ctx, &activity.Entry{
		ActorID:    actorID,
		Action:     action,
		TargetType: activity.TargetPayment,
		TargetID:   paymentID,
		Details:    detailsJSON,
	})
}
