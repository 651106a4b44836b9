package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that does not permit the operation.
var ErrConflict = errors.New("resource state conflict")

// ErrUnbalanced indicates an entry set whose per-currency debits and credits differ.
// This is a handler contract violation and is never coerced into balance.
var ErrUnbalanced = errors.New("entry set is not balanced")

// ErrNoHandler indicates that no handler is registered for an (entity, action) pair.
var ErrNoHandler = errors.New("no handler registered")

// ErrUnknownCommand indicates a decision against a command with no approval request.
var ErrUnknownCommand = errors.New("unknown command")

// ErrSelfApproval indicates that the checker is the same principal as the maker.
var ErrSelfApproval = errors.New("self approval denied")

// ErrInfrastructure indicates a transient storage or transport failure. The
// command record stays PENDING, so the caller may retry safely.
var ErrInfrastructure = errors.New("infrastructure failure")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
