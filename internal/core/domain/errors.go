package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account pending approval")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccessDenied       = errors.New("access denied")
	ErrApprovalRequired   = errors.New("pharmacy account must be approved before adding stock")
	ErrDuplicateIdentity  = errors.New("user already exists")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidEntry       = errors.New("invalid stock entry")
	ErrNotFound           = errors.New("not found")
)
