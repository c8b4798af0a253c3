// Package log builds the slog loggers psiscan uses and reports failures to
// Sentry.
//
// SecureHandler keeps personal data out of logs. Attributes named after a
// PSI attribute ("first_name", "Date of Birth") or carrying CV content
// ("text", "entity", "psi") are replaced with a SHA3 digest token, and
// secrets such as API keys are replaced with MaskValue. This holds in verbose
// mode too.
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("first name found", "first_name", "John") // first_name=sha3:...
//
// SentryNotifier sends skipped files and fatal errors to Sentry when a DSN is
// configured. Events carry the file name and error chain only.
package log
