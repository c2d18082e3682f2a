package core

// Logger is the app-wide logging contract.
// Implementations may inspect trailing args for errors or the acting account.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
