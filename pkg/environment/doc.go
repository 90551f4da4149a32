// Package environment names the deployment environment a process runs in.
//
// Parse accepts the usual spellings ("production", "prod", "development",
// "dev", ...) and falls back to Development for anything unknown. Production
// only behaviour, such as Secure session cookies, must be requested explicitly.
package environment
