package authgate

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

// VerifyOTP transitions an account from unverified to verified when the
// submitted code matches the pending OTP before its expiry. Verification is
// one-way: a verified account never reverts, and a second call fails with
// [ErrAlreadyVerified].
//
// The match check runs before the expiry check, so a wrong code is reported
// as invalid even when the pending OTP has also expired.
func (e *Engine) VerifyOTP(ctx context.Context, email, code string) (*AccountView, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	account, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrStoreNotFound) {
			e.metricInc(MetricOTPVerifyFailure)
			e.emitAudit(ctx, auditEventOTPVerifyFailure, false, "", email, ErrAccountNotFound, nil)
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if account.IsVerified {
		e.metricInc(MetricOTPVerifyFailure)
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, account.ExternalID, email, ErrAlreadyVerified, nil)
		return nil, ErrAlreadyVerified
	}

	if account.OTPCode == "" || subtle.ConstantTimeCompare([]byte(account.OTPCode), []byte(code)) != 1 {
		e.metricInc(MetricOTPVerifyFailure)
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, account.ExternalID, email, ErrInvalidOTP, func() map[string]string {
			return map[string]string{
				"reason": "code_mismatch",
			}
		})
		return nil, ErrInvalidOTP
	}

	if time.Now().Unix() >= account.OTPExpiry {
		e.metricInc(MetricOTPVerifyFailure)
		e.emitAudit(ctx, auditEventOTPVerifyFailure, false, account.ExternalID, email, ErrOTPExpired, nil)
		return nil, ErrOTPExpired
	}

	account.IsVerified = true
	account.OTPCode = ""
	account.OTPExpiry = 0

	if err := e.store.Update(ctx, account); err != nil {
		return nil, err
	}

	e.metricInc(MetricOTPVerifySuccess)
	e.emitAudit(ctx, auditEventOTPVerifySuccess, true, account.ExternalID, email, nil, nil)

	view := account.View()
	return &view, nil
}
