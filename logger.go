package dashboard

import "github.com/tendermint/tendermint/libs/log"

// DefaultLogger is used by all components that were not given a logger.
var DefaultLogger = log.NewNopLogger()

// LoggerOrDefault returns given logger or the DefaultLogger if nil.
func LoggerOrDefault(l log.Logger) log.Logger {
	if l == nil {
		return DefaultLogger
	}
	return l
}
