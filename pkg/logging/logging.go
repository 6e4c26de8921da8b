package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

type ctxKey struct{}

type Logger struct {
	out     io.Writer
	err     io.Writer
	json    bool
	quiet   bool
	verbose bool
}

func DefaultLogger() Logger {
	return Logger{
		out: os.Stdout,
		err: os.Stderr,
	}
}

func NewLogger(out, err io.Writer, json, quiet, verbose bool) Logger {
	return Logger{
		out:     out,
		err:     err,
		json:    json,
		quiet:   quiet,
		verbose: verbose && !quiet,
	}
}

// Ctx returns the logger associated with the given context.
// Falls back to a default logger so call sites never need a nil check.
func Ctx(ctx context.Context) Logger {
	l, ok := ctx.Value(ctxKey{}).(Logger)
	if !ok {
		return DefaultLogger()
	}
	return l
}

// WithContext returns a new context carrying this logger.
func (l Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Out writes a line of primary command output.
// Results go here; diagnostics go to the tagged channels below.
func (l Logger) Out(f string, args ...interface{}) {
	fmt.Fprintf(l.out, f+"\n", args...)
}

func (l Logger) Info(tag string, f string, args ...interface{}) {
	if l.quiet {
		return
	}
	l.print(color.New(color.FgHiGreen), tag, f, args...)
}

func (l Logger) Debug(tag string, f string, args ...interface{}) {
	if l.verbose {
		l.print(color.New(color.FgGreen), tag, f, args...)
	}
}

func (l Logger) print(tagColor *color.Color, tag, f string, args ...interface{}) {
	str := fmt.Sprintf(f, args...)
	for _, line := range strings.Split(str, "\n") {
		if tag == "" {
			fmt.Fprintf(l.err, "%s\n", color.WhiteString(line))
			continue
		}
		fmt.Fprintf(l.err, "%s  %s\n",
			tagColor.Sprint(tag),
			color.WhiteString(line))
	}
}

type Writer struct {
	pipe io.Writer
	tag  string
}

// InfoWriter adapts the info channel to an io.Writer, for handing to
// subprocess stderr and the like.
func (l Logger) InfoWriter(tag string) *Writer {
	return &Writer{
		pipe: l.err,
		tag:  tag,
	}
}

func (w *Writer) Write(data []byte) (n int, err error) {
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		fmt.Fprintf(w.pipe, "%s  %s\n",
			color.HiYellowString(w.tag),
			color.HiWhiteString(line))
	}
	return len(data), nil
}
