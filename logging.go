package railtracker

import (
	"io"
	"log"
	"os"
)

// InitLogging sends the standard logger to stdout with microsecond timestamps.
func InitLogging() {
	InitLoggingTo(os.Stdout)
}

// InitLoggingTo is InitLogging with an explicit writer.
func InitLoggingTo(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
