package authgate

const (
	auditEventRegisterSuccess          = "register_success"
	auditEventRegisterDuplicate        = "register_duplicate"
	auditEventRegisterFailure          = "register_failure"
	auditEventOTPVerifySuccess         = "otp_verify_success"
	auditEventOTPVerifyFailure         = "otp_verify_failure"
	auditEventOTPResend                = "otp_resend"
	auditEventLoginSuccess             = "login_success"
	auditEventLoginFailure             = "login_failure"
	auditEventPasswordChangeSuccess    = "password_change_success"
	auditEventPasswordChangeInvalidOld = "password_change_invalid_old"
	auditEventPasswordChangeFailure    = "password_change_failure"
	auditEventAccountDeleted           = "account_deleted"
	auditEventEmailDispatchFailure     = "email_dispatch_failure"
)
