// Package auth serves the browser-facing OAuth routes:
//
//	GET  /login/{provider}     start a login, 302 to the consent page
//	GET  /validate/{provider}  finish it, set the session cookie, 302 to the app
//	GET  /session              describe the current session (guarded)
//	POST /refresh/{provider}   fresh provider access token (guarded)
//	POST /logout               clear the session cookie
//
// Mount the Router at /auth. Every error is rendered as a generic JSON body;
// causes only reach the logs.
package auth
