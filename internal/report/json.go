package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02 15:04:05"

// archiveHandler is a slog handler writing one flat JSON object per record:
// a "time" field followed by the record attributes, without level or message.
type archiveHandler struct {
	out   io.Writer
	attrs []slog.Attr
}

// NewArchiveHandler creates a handler writing JSON lines to out.
func NewArchiveHandler(out io.Writer) slog.Handler {
	return &archiveHandler{out: out}
}

func (h *archiveHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs()+len(h.attrs)+1)
	fields["time"] = r.Time.Format(timeLayout)

	add := func(a slog.Attr) bool {
		if a.Key != "" && a.Value.Any() != nil {
			fields[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		add(a)
	}
	r.Attrs(add)

	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	_, err = h.out.Write(append(data, '\n'))
	return err
}

func (h *archiveHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &archiveHandler{out: h.out, attrs: merged}
}

// WithGroup is a no-op: archive records are flat.
func (h *archiveHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *archiveHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// JsonRunRepository appends runs to a rotating, compressed JSONL file.
type JsonRunRepository struct {
	lumberjack *lumberjack.Logger
	logger     *slog.Logger
}

// NewJsonRunRepository creates an archive at file.
// Parameters:
// - maxSize: file size in MB before rotation
// - maxBackups: rotated files kept
func NewJsonRunRepository(file string, maxSize, maxBackups int) *JsonRunRepository {
	repo := JsonRunRepository{}
	repo.lumberjack = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		Compress:   true,
	}
	repo.logger = slog.New(NewArchiveHandler(repo.lumberjack))
	return &repo
}

// Append writes run as one line {"time": ..., "run": {...}}.
func (r *JsonRunRepository) Append(run Run) {
	r.logger.Info("", "run", run)
}

// Close flushes and closes the current archive file.
func (r *JsonRunRepository) Close() error {
	return r.lumberjack.Close()
}
