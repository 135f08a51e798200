// Package form provides the interactive validation session that sits between
// a form controller and a validator.Registry.
//
// A Session keeps the live values of one form, the per-field error lists of
// the latest validation and the touched flags used by UI code to decide when
// errors are shown:
//
//	s := form.New(validator.Record{"email": ""}, map[string][]validator.Rule{
//		"email": {validator.Required(), validator.Email()},
//	})
//	s.HandleChange("email", "a@b.com")
//	s.HandleBlur("email")
//	if s.ValidateAll() {
//		submit(s.Values())
//	}
//
// Sessions are not safe for concurrent use. Servers that keep sessions across
// requests snapshot them with Session.State, persist the State in a Store
// (MemoryStore, RedisStore or PostgresStore) and rebuild them with Restore.
// All stores report a missing or expired id as ErrSessionNotFound.
package form
