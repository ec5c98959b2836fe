package email

// Config holds email gateway configuration. Tokens identify the Postmark
// account; the sender address on each message comes from the acting
// user's profile, not from configuration.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
}
