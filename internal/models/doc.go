// Package models defines the records exchanged with the finance API.
//
// JSON tags match the wire format exactly. Money that the server owns
// (account balance, transaction amount) stays a decimal string end to end;
// aggregates computed by the server decode into decimal.Decimal, which
// accepts both JSON numbers and quoted strings.
//
// Input types carry a Validate method implementing the local checks that run
// before any request is sent. Validation failures are *errors.ValidationError
// so callers can show the message inline.
package models
