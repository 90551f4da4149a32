// Package cookie writes HTTP cookies with shared defaults.
//
// A Manager is built once with the attributes every cookie should carry
// (Path "/", HttpOnly and SameSite Lax unless overridden) and then used to
// Set, Get and Delete cookies by name:
//
//	cookies := cookie.NewFromConfig(cfg, cookie.WithSecure(env.IsProduction()))
//	_ = cookies.Set(w, "auth_token", token, cookie.WithMaxAge(3600))
//	cookies.Delete(w, "auth_token")
//
// Values are written as given. The package does not sign or encrypt them.
package cookie
