package auth

// Config holds the browser-facing settings of the auth routes.
type Config struct {
	// ClientBaseURL is the frontend origin a completed login returns to.
	ClientBaseURL string `env:"CLIENT_BASE_URL,required"`
	ProfilePath   string `env:"CLIENT_PROFILE_PATH" envDefault:"/user/profile"`
}
