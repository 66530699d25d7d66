package authgate

import "errors"

var (
	// ErrDuplicateEmail is returned by Register when the email is already taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrAccountNotFound is returned when no account matches the given email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAlreadyVerified is returned by VerifyOTP and ResendOTP for verified accounts.
	ErrAlreadyVerified = errors.New("account already verified")
	// ErrInvalidOTP is returned when no OTP is pending or the submitted code does not match.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrOTPExpired is returned when the pending OTP matched but its expiry has passed.
	ErrOTPExpired = errors.New("otp expired")
	// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailNotVerified is returned by Login when the password matched but the
	// account has not completed OTP verification.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrWeakPassword is returned by ChangePassword when the new password is
	// shorter than the configured minimum.
	ErrWeakPassword = errors.New("password too weak")
	// ErrUnauthorized is returned by Resolve for any token that fails signature,
	// claim, expiry, or stored-token checks.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDeliveryFailed wraps email transport failures during OTP dispatch. The
	// account record has already been persisted when this is returned.
	ErrDeliveryFailed = errors.New("otp email delivery failed")
	// ErrEngineNotReady is returned when a required collaborator was not wired.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrStoreNotFound is the sentinel AccountStore implementations return when
	// no record matches a lookup.
	ErrStoreNotFound = errors.New("account record not found")
	// ErrStoreConstraintViolation is the sentinel AccountStore implementations
	// return on a unique-key conflict.
	ErrStoreConstraintViolation = errors.New("unique constraint violation")
)
