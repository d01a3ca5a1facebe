package domain

import "errors"

var (
	ErrRuleNotFound             = errors.New("bonus rule not found")
	ErrWorkerNotFound           = errors.New("worker not found")
	ErrRuleInactive             = errors.New("bonus rule is inactive")
	ErrInvalidTierConfiguration = errors.New("invalid tier configuration")
	ErrProgressConflict         = errors.New("concurrent progress conflict")
	ErrAwardAlreadyExists       = errors.New("award already exists for window")
	ErrWindowResolution         = errors.New("failed to resolve evaluation window")
)
