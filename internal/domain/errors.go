package domain

import "errors"

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrPostNotFound           = errors.New("post not found")
	ErrCommentNotFound        = errors.New("comment not found")
	ErrIdentificationNotFound = errors.New("identification not found")
	ErrVoteRecordNotFound     = errors.New("vote record not found")
	ErrConsensusNotFound      = errors.New("consensus metadata not found")
	ErrUsernameTaken          = errors.New("username already taken")
)
