package service

import "errors"

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("lead not found")
	ErrNameRequired       = errors.New("first and last name are required")
	ErrNameTooLong        = errors.New("first and last name must be at most 100 characters")
	ErrResumeRequired     = errors.New("a resume file is required")
	ErrStatusReversal     = errors.New("a reached_out lead cannot return to pending")
	ErrDuplicateEmail     = errors.New("a lead with this email already exists")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidStatus      = errors.New("invalid lead status")
	ErrInvalidStorage     = errors.New("unknown storage backend")
	ErrNoResume           = errors.New("lead has no resume")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidToken       = errors.New("could not validate credentials")
)
