// Package authstate keeps the storefront's view of "who is signed in and what
// may they do".
//
// A Manager mirrors an IdentityProvider, resolves the role and profile of the
// signed-in identity through a ProfileStore and broadcasts every change to
// subscribers. A snapshot of the resolved state is written to a SnapshotCache
// so the next page load can render provisional UI before the provider answers.
//
// # Lifecycle
//
//	mgr := authstate.New(
//	    authstate.WithIdentityProvider(provider),
//	    authstate.WithProfileStore(profiles),
//	    authstate.WithCache(authstate.NewRedisCache(rdb, time.Hour)),
//	    authstate.WithLogger(log),
//	)
//	mgr.Initialize(ctx)
//	defer mgr.Close()
//
//	unsubscribe := mgr.Subscribe(func(s authstate.State) {
//	    // update navbar, admin links, cart badge
//	})
//	defer unsubscribe()
//
// # Roles
//
// Only two roles exist, RoleClient and RoleAdministrator. Missing or unknown
// role values, failed lookups and missing profiles all resolve to RoleClient.
// Role reports RoleClient for signed-out users as well; use IsAuthenticated to
// tell them apart.
//
// # Cache
//
// The snapshot is trusted for DefaultMaxAge (one hour). A snapshot exactly
// that old is discarded. Restored values only populate role and profile and
// mark the state Provisional; the identity itself always comes from the
// provider. The first reconciliation clears the provisional flag.
//
// # Concurrency
//
// SetIdentity and ClearIdentity are serialized. Each notification pass works
// on a copy of the subscriber list taken together with the state change, and
// delivers in registration order. Callbacks may read the manager, subscribe
// and unsubscribe, but must not call SetIdentity or ClearIdentity.
package authstate
