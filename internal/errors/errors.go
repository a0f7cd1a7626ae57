// Package errors defines the domain errors shared by services and handlers.
// Each error carries a stable Code that clients can match on.
package errors

import stderrors "errors"

// DomainError is a business rule violation with a machine readable code.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}
