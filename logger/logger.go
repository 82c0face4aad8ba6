package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Options controls where and how much the process logs.
type Options struct {
	Level  string
	File   string
	Stdout bool
	MaxAge int
}

func init() {
	log.SetFormatter(Formatter(false))
}

// Init applies the options to the standard logrus logger. When a file is
// given it is rotated daily and the newest file is linked at File.
func Init(opts Options) error {
	var writers []io.Writer
	colors := false

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return errors.Wrap(err, "create log dir")
		}
		maxAge := opts.MaxAge
		if maxAge <= 0 {
			maxAge = 7
		}
		writer, err := rotatelogs.New(
			opts.File+".%Y%m%d",
			rotatelogs.WithLinkName(opts.File),
			rotatelogs.WithRotationCount(uint(maxAge)),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return errors.Wrap(err, "init log rotation")
		}
		writers = append(writers, writer)
	}
	if opts.Stdout || len(writers) == 0 {
		writers = append(writers, os.Stdout)
		colors = opts.File == ""
	}

	log.SetOutput(io.MultiWriter(writers...))
	log.SetFormatter(Formatter(colors))
	log.SetReportCaller(false)

	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	return nil
}

// withCaller builds an entry tagged with the file:line that called the
// exported helper. Every helper calls it directly so one frame is skipped.
func withCaller(fields log.Fields) *log.Entry {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file, line = "unknown", 0
	}
	fields["caller"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	return log.WithFields(fields)
}

func Info(args ...any) { withCaller(log.Fields{}).Info(args...) }
func Error(args ...any) { withCaller(log.Fields{}).Error(args...) }
func Debug(args ...any) { withCaller(log.Fields{}).Debug(args...) }
func Warn(args ...any) { withCaller(log.Fields{}).Warn(args...) }
func Fatal(args ...any) { withCaller(log.Fields{}).Fatal(args...) }

func Infof(format string, args ...any) { withCaller(log.Fields{}).Infof(format, args...) }
func Errorf(format string, args ...any) { withCaller(log.Fields{}).Errorf(format, args...) }
func Debugf(format string, args ...any) { withCaller(log.Fields{}).Debugf(format, args...) }
func Warnf(format string, args ...any) { withCaller(log.Fields{}).Warnf(format, args...) }
func Fatalf(format string, args ...any) { withCaller(log.Fields{}).Fatalf(format, args...) }

// Log returns an entry built from alternating key/value pairs. A trailing key
// without a value is logged with an empty string.
func Log(kv ...any) *log.Entry {
	fields := log.Fields{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(kv) {
			fields[key] = kv[i+1]
		} else {
			fields[key] = ""
		}
	}
	return withCaller(fields)
}

func Formatter(isConsole bool) *nested.Formatter {
	return &nested.Formatter{
		FieldsOrder:      []string{"time", "level", "caller", "msg"},
		TimestampFormat:  "2006-01-02 15:04:05.000",
		CallerFirst:      true,
		NoUppercaseLevel: true,
		ShowFullLevel:    true,
		NoColors:         !isConsole,
		CustomCallerFormatter: func(frame *runtime.Frame) string {
			return ""
		},
	}
}
