package models

import "errors"

// Custom errors
var (
	ErrUnknownTeam   = errors.New("unknown team")
	ErrMissingTeamID = errors.New("missing numeric team id")
	ErrNotFound      = errors.New("record not found")
)
