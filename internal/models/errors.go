package models

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyTranscript      = errors.New("conversation has no messages to analyze")
	ErrReportNotFound       = errors.New("report not found")
	ErrStoreConflict        = errors.New("report store write conflict")
	ErrInvalidTranscript    = errors.New("invalid transcript")
	ErrInvalidUpload        = errors.New("invalid conversation upload")
)
