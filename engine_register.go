package authgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/authgate/authgate/internal"
	"github.com/google/uuid"
)

const otpEmailSubject = "Your OTP Verification Code"

// Register creates an unverified account, issues its first OTP, and dispatches
// the verification email. The account and its OTP fields are persisted before
// the email is sent: when the transport fails the call returns
// [ErrDeliveryFailed] but the record remains, so a later ResendOTP can recover
// without re-registering.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*AccountView, error) {
	if e == nil || e.store == nil || e.mailer == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if req.Email == "" || req.Password == "" {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", req.Email, ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"reason": "empty_email_or_password",
			}
		})
		return nil, ErrInvalidCredentials
	}

	if _, err := e.store.FindByEmail(ctx, req.Email); err == nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", req.Email, ErrDuplicateEmail, nil)
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrStoreNotFound) {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", req.Email, err, func() map[string]string {
			return map[string]string{
				"reason": "store_lookup_failed",
			}
		})
		return nil, err
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", req.Email, err, func() map[string]string {
			return map[string]string{
				"reason": "hash_failed",
			}
		})
		return nil, err
	}

	account := &Account{
		ExternalID:   uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := e.store.Insert(ctx, account); err != nil {
		// The pre-insert lookup races concurrent registrations; the unique
		// index is the authority.
		if errors.Is(err, ErrStoreConstraintViolation) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterDuplicate, false, "", req.Email, ErrDuplicateEmail, nil)
			return nil, ErrDuplicateEmail
		}
		e.metricInc(MetricRegisterFailure)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", req.Email, err, func() map[string]string {
			return map[string]string{
				"reason": "store_insert_failed",
			}
		})
		return nil, err
	}

	if err := e.issueOTP(ctx, account); err != nil {
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, account.ExternalID, account.Email, nil, nil)

	view := account.View()
	return &view, nil
}

// ResendOTP regenerates and dispatches a fresh passcode for an unverified
// account. It covers the gap left when the registration email failed after
// the account was persisted.
func (e *Engine) ResendOTP(ctx context.Context, email string) error {
	if e == nil || e.store == nil || e.mailer == nil {
		return ErrEngineNotReady
	}

	account, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	if err := e.issueOTP(ctx, account); err != nil {
		return err
	}

	e.metricInc(MetricOTPResent)
	e.emitAudit(ctx, auditEventOTPResend, true, account.ExternalID, account.Email, nil, nil)
	return nil
}

// issueOTP generates a passcode, persists it on the account, and dispatches
// the email. Persist-then-send ordering is load-bearing: a stored code with a
// failed send is recoverable, a sent code that was never stored is not.
func (e *Engine) issueOTP(ctx context.Context, account *Account) error {
	code, err := internal.NewOTP(e.config.OTP.Digits)
	if err != nil {
		return err
	}

	account.OTPCode = code
	account.OTPExpiry = time.Now().Add(e.config.OTP.TTL).Unix()

	if err := e.store.Update(ctx, account); err != nil {
		return err
	}

	if err := e.mailer.Send(ctx, account.Email, otpEmailSubject, e.otpEmailBody(code)); err != nil {
		e.metricInc(MetricEmailDispatchFailure)
		e.emitAudit(ctx, auditEventEmailDispatchFailure, false, account.ExternalID, account.Email, err, nil)
		return errors.Join(ErrDeliveryFailed, err)
	}

	return nil
}

func (e *Engine) otpEmailBody(code string) string {
	minutes := int(e.config.OTP.TTL / time.Minute)
	return fmt.Sprintf("Your OTP for verification is: %s. It is valid for %d minutes.", code, minutes)
}
