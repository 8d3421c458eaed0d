package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/cachefront"
)

var _ cachefront.Logger = LogrusLogger{}

// LogrusLogger writes through E, or the standard logrus logger when E is nil.
// An error stored under "err" is attached with WithError.
type LogrusLogger struct{ E *logrus.Entry }

func (l LogrusLogger) Debug(msg string, f cachefront.Fields) { l.entry(f).Debug(msg) }
func (l LogrusLogger) Info(msg string, f cachefront.Fields)  { l.entry(f).Info(msg) }
func (l LogrusLogger) Warn(msg string, f cachefront.Fields)  { l.entry(f).Warn(msg) }
func (l LogrusLogger) Error(msg string, f cachefront.Fields) { l.entry(f).Error(msg) }

func (l LogrusLogger) entry(f cachefront.Fields) *logrus.Entry {
	e := l.E
	if e == nil {
		e = logrus.NewEntry(logrus.StandardLogger())
	}
	if len(f) == 0 {
		return e
	}
	data := make(logrus.Fields, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok && k == "err" {
			e = e.WithError(err)
			continue
		}
		data[k] = v
	}
	return e.WithFields(data)
}
