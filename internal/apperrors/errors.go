package apperrors

import "errors"

// Authentication errors cause a forced logout: the session store is purged
// and the caller is redirected to the login view.
var (
	// ErrUnauthorized indicates that the backend rejected the session credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession indicates that no session tokens are present.
	ErrNoSession = errors.New("no active session")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrDeleteNotConfirmed indicates that a delete was requested without the
	// explicit confirmation step. The backend is never called in this case.
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	// ErrUnknownCurrency indicates that a currency code is not in the supported set.
	ErrUnknownCurrency = errors.New("unknown currency")

	// ErrInvalidPriceTarget indicates that a price alert target is missing or not positive.
	ErrInvalidPriceTarget = errors.New("price target must be a positive number")

	// ErrInvalidTriggerCondition indicates a trigger condition other than ABOVE or BELOW.
	ErrInvalidTriggerCondition = errors.New("trigger condition must be ABOVE or BELOW")

	// ErrInvalidTransactionType indicates a transaction type other than BUY or SELL.
	ErrInvalidTransactionType = errors.New("transaction type must be BUY or SELL")

	// ErrMissingTicker indicates that a required ticker symbol is empty.
	ErrMissingTicker = errors.New("ticker is required")
)

// Domain entity errors represent missing entities on the backend of record.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Operation failure errors represent transient collaborator failures. These are
// surfaced as dismissible notices and the operation is abandoned without retry.
var (
	// Transaction operation errors
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToUpdateTransaction    = errors.New("failed to update transaction")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")

	// Summary operation errors
	ErrFailedToRetrieveSummary = errors.New("failed to retrieve summary")

	// Alert operation errors
	ErrFailedToCreateAlert = errors.New("failed to create alert")

	// News operation errors
	ErrFailedToRetrieveNews = errors.New("failed to retrieve news")

	// Tax operation errors
	ErrFailedToCalculateTax = errors.New("failed to calculate tax")

	// Auth operation errors
	ErrLoginFailed    = errors.New("login failed")
	ErrRegisterFailed = errors.New("registration failed")
)

// Degraded-data errors are specific to exchange-rate resolution. The rate store
// substitutes a static default and raises a soft indicator instead of failing.
var (
	// ErrRateUnavailable indicates that the live exchange-rate service could not
	// produce a usable rate and the static default was adopted.
	ErrRateUnavailable = errors.New("exchange rate service unavailable")
)
