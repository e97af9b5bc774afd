// Package tokenstore persists the access/refresh token pair between runs.
//
// A Store is bound to one API origin (scheme://host[:port]) so credentials
// issued by one server are never sent to another. Two fixed keys are kept
// per origin: "access_token" and "refresh_token". There is no expiry
// tracking; a stored token is trusted until the server rejects it.
//
// Backends:
//
//   - FileStore writes one JSON document per origin, atomically, mode 0600.
//   - SQLiteStore keeps a tokens(origin, key, value) table in tokens.db.
//   - MemoryStore lives for the process only and is used by tests.
//
// Open picks the backend named by the auth.token_store setting.
package tokenstore
