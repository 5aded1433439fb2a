package goulink

import (
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
}

// SetLogger replaces the package-level logger. Only buffer.go logs
// through it; the other files log through the standard logrus logger,
// which SetLogger does not affect.
func SetLogger(l *logrus.Logger) {
	logger = l
}
