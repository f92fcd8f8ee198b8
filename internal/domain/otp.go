package domain

import "time"

// OTPTTL is how long a freshly issued code stays valid.
const OTPTTL = 5 * time.Minute

// VerifiedWindow bounds how long a consumed code remains usable as proof of
// email ownership during registration. A record verified longer ago than this
// is purged and the caller must restart the flow.
const VerifiedWindow = 30 * time.Minute

// OTPRecord is a one-time passcode issued to an email address.
// PK: email, SK: otp_id. ExpiresAt doubles as the DynamoDB TTL attribute,
// so abandoned records are garbage-collected without a sweeper.
//
// At most one unconsumed record exists per email at any instant: Put deletes
// stale unused records before inserting.
type OTPRecord struct {
	Email      string `json:"email" dynamodbav:"email"`
	OTPID      string `json:"id" dynamodbav:"otp_id"`
	Code       string `json:"-" dynamodbav:"code"`
	ExpiresAt  int64  `json:"expires_at" dynamodbav:"expires_at"` // Unix seconds
	Used       bool   `json:"used" dynamodbav:"used"`
	Verified   bool   `json:"verified" dynamodbav:"verified"`
	VerifiedAt int64  `json:"verified_at,omitempty" dynamodbav:"verified_at"` // Unix seconds, 0 until consumed
	LastSentAt int64  `json:"last_sent_at" dynamodbav:"last_sent_at"`         // Unix seconds
}

// Expired reports whether the record is past its expiry at the given instant.
func (r *OTPRecord) Expired(now time.Time) bool {
	return now.Unix() > r.ExpiresAt
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}
