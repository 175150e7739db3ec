// Package identity is the storefront's authentication backend: password
// accounts hashed with bcrypt, Google sign-in over OAuth 2.0, and a single
// current identity that the session manager mirrors.
//
//	provider := identity.NewProvider(identity.NewMongoAccountStore(db),
//	    identity.WithProfileWriter(profiles),
//	    identity.WithGoogle(identity.NewGoogleOAuth(cfg.Google), cfg.Google.VerifiedOnly),
//	)
//	manager := authstate.New(authstate.WithIdentityProvider(provider))
//
// Sign-up writes a profile record with the requested role (administrator only
// when WithAdminSignup is set). Failed password attempts are throttled per
// email when a limiter is configured. Message turns any returned error into
// text suitable for the user.
package identity
