package authgate

import "context"

// DeleteAccount removes the account record permanently. There is no
// soft-delete and no further checks; callers authenticate first via Resolve.
func (e *Engine) DeleteAccount(ctx context.Context, account *Account) error {
	if e == nil || e.store == nil {
		return ErrEngineNotReady
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if err := e.store.Delete(ctx, account.ID); err != nil {
		return err
	}

	e.metricInc(MetricAccountDeleted)
	e.emitAudit(ctx, auditEventAccountDeleted, true, account.ExternalID, account.Email, nil, nil)

	return nil
}
