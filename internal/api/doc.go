// Package api is the single point of outbound HTTP traffic to the finance API.
//
// Client performs JSON requests against a base URL. Before every request it
// reads the token store and attaches "Authorization: Bearer <access>" when a
// token is held. A 401 response clears the token store and is returned as an
// *errors.APIError matching errors.ErrUnauthorized, so the session layer can
// fall back to the login screen.
//
// When built WithRefreshOnUnauthorized(true), a 401 on an authenticated
// request first triggers one refresh-token exchange and one replay of the
// original request. Only if that exchange fails is the store cleared.
//
// AuthAPI and ExpensesAPI are typed wrappers over Client, one method per
// endpoint. They never retry and never cache.
package api
