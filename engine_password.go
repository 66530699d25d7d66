package authgate

import "context"

// ChangePassword rehashes and stores a new password after verifying the
// current one. Any outstanding access token is cleared in the same write, so
// every session is forced through a fresh login.
func (e *Engine) ChangePassword(ctx context.Context, account *Account, currentPassword, newPassword string) (*AccountView, error) {
	if e == nil || e.store == nil || e.hasher == nil {
		return nil, ErrEngineNotReady
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	ok, err := e.hasher.Verify(currentPassword, account.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeInvalidOld, false, account.ExternalID, account.Email, ErrInvalidCredentials, nil)
		return nil, ErrInvalidCredentials
	}

	if len(newPassword) < e.config.Password.MinLength {
		e.metricInc(MetricPasswordChangeWeak)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, account.ExternalID, account.Email, ErrWeakPassword, func() map[string]string {
			return map[string]string{
				"reason": "below_min_length",
			}
		})
		return nil, ErrWeakPassword
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, account.ExternalID, account.Email, err, nil)
		return nil, err
	}

	account.PasswordHash = hash
	account.CurrentToken = ""
	account.TokenExpiry = 0

	if err := e.store.Update(ctx, account); err != nil {
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, account.ExternalID, account.Email, err, nil)
		return nil, err
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, account.ExternalID, account.Email, nil, nil)

	view := account.View()
	return &view, nil
}
