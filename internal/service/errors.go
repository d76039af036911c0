package service

import "errors"

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrReviewNotFound indicates the review record was not located.
var ErrReviewNotFound = errors.New("review not found")

// ErrJobNotFound indicates no AI job exists for the submission.
var ErrJobNotFound = errors.New("no grading job for submission")

// ErrInvalidAction indicates an unknown review decision action.
var ErrInvalidAction = errors.New("invalid review action")

// ErrUnknownAgent indicates the requested AI agent is not configured.
var ErrUnknownAgent = errors.New("ai agent is not in the configured agent list")

// ErrUnknownSubject indicates an unrecognized subject tag.
var ErrUnknownSubject = errors.New("unknown subject tag")
