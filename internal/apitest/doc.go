// Package apitest provides an in-process fake of the finance API for tests.
//
// Server is a gin engine behind net/http/httptest implementing every endpoint
// the client uses. Access tokens are HS256 JWTs, refresh tokens are random
// UUIDs, and validation failures come back in the same shapes the real API
// uses (field maps, detail, message, error). Balances, counts and summaries
// are computed server-side from the stored transactions.
//
// Tests can seed data, inject one-shot failures with FailNext, expire access
// tokens with ExpireAccessTokens, and inspect the recorded requests.
package apitest
