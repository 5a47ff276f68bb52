package service

import "errors"

var (
	ErrBlankContent       = errors.New("content must not be blank")
	ErrInvalidDate        = errors.New("date must be YYYY-MM-DD")
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWaterStep          = errors.New("water changes by one glass at a time")
)
