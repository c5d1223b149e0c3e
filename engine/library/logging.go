package library

import (
	"fmt"
	"runtime/debug"

	"github.com/mborders/logmatic"
)

var logLevel = 4

// SetLogLevel drops messages above the given level. See LogCLI for the levels.
func SetLogLevel(level int) {
	logLevel = level
}

// Logs to the terminal. Level options are: 0 fatal error (stack dump), 1 serious error (stack dump), 2 warning, 3 debug, 4 info, 5 trace (stack dump).
func LogCLI(message interface{}, level int) {
	if level > logLevel {
		return
	}
	l := logmatic.NewLogger()
	l.SetLevel(logmatic.TRACE)
	message = fmt.Sprint(message)
	switch level {
	case 5:
		debug.PrintStack()
		l.Trace("%v", message)
	case 4:
		l.Info("%v", message)
	case 3:
		l.Debug("%v", message)
	case 2:
		l.Warn("%v", message)
	case 1:
		debug.PrintStack()
		l.Error("%v", message)
	case 0:
		debug.PrintStack()
		l.Error("%v", message)
	}
}
