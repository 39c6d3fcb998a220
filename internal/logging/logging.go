// Package logging configures the process logger: text to stderr, plus
// a size-rotated file under the provisioned log directory when that
// directory is writable.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds a logger named after the process. When dir is writable
// it also logs to dir/<name>.log, rotated at 10 MB and retained for a
// week, matching the service's provisioned log contract.
func Setup(name, dir string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)

	if dir == "" || !writable(dir) {
		return log
	}

	rotated := &lumberjack.Logger{
		Filename: filepath.Join(dir, name+".log"),
		MaxSize:  10, // megabytes
		MaxAge:   7,  // days
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	return log
}

func writable(dir string) bool {
	probe := filepath.Join(dir, ".probe")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}
