package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/hashicorp/logutils"
)

// levels are the log levels the filter understands, in order of
// increasing severity. They match the bracketed prefixes the library
// logs with.
var levels = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN", "ERR"}

// setupLogging installs a level filter over the standard logger so that
// bracketed log lines below the given level are dropped.
func setupLogging(level string, w io.Writer) error {
	min := logutils.LogLevel(strings.ToUpper(level))
	if !validLevel(min) {
		return fmt.Errorf("invalid log level %q, valid levels are %v",
			level, levels)
	}
	log.SetOutput(&logutils.LevelFilter{
		Levels:   levels,
		MinLevel: min,
		Writer:   w,
	})
	return nil
}

func validLevel(level logutils.LogLevel) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
