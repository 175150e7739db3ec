// Package profile stores the user records that carry each account's role.
//
// Records live in the users collection keyed by identity id:
//
//	{_id, full_name, email, role, created_at}
//
// MongoStore is the production implementation and MemoryStore serves tests
// and database-less runs. Wrap either in a Breaker so a failing backend trips
// the circuit and lookups fail fast; the session manager then degrades the
// user to the client role instead of waiting on every request.
//
//	store := profile.NewBreaker(profile.NewMongoStore(db), cfg, log)
//	manager := authstate.New(authstate.WithProfileStore(store))
package profile
