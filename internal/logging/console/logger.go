// Package console writes log entries as single lines, either as sorted
// key=value text or as JSON objects.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Level is an entry severity.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelLabels = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelLabels) {
		return levelLabels[l]
	}
	return "INFO"
}

var levelNames = map[string]Level{
	"":        LevelInfo,
	"trace":   LevelTrace,
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

// ParseLevel resolves a configured level name. Unknown names return
// LevelInfo and false.
func ParseLevel(name string) (Level, bool) {
	level, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return LevelInfo, false
	}
	return level, true
}

var levelStyles = [...]lipgloss.Style{
	LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	LevelFatal: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat resolves a configured format name; blank means text.
func ParseFormat(name string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	default:
		return FormatText, false
	}
}

// Options configures a Provider. The zero value writes DEBUG and above as
// uncoloured text to stdout.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
	Format   Format
	// Color styles text level labels. Ignored for JSON.
	Color bool
}

// Provider hands out loggers sharing one writer.
type Provider struct {
	mu     sync.Mutex
	out    io.Writer
	now    func() time.Time
	min    Level
	format Format
	color  bool
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds a Provider from opts.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		out:    opts.Writer,
		now:    opts.TimeFunc,
		min:    LevelDebug,
		format: opts.Format,
		color:  opts.Color && opts.Format != FormatJSON,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.now == nil {
		p.now = time.Now
	}
	if opts.MinLevel != nil {
		p.min = *opts.MinLevel
	}
	if p.format == "" {
		p.format = FormatText
	}
	return p
}

// GetLogger returns a logger tagged with logger=name.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	return &entryLogger{provider: p, fields: map[string]any{"logger": name}}
}

func (p *Provider) write(level Level, msg string, fields map[string]any) {
	ts := p.now().UTC()
	var line string
	if p.format == FormatJSON {
		line = encodeJSON(ts, level, msg, fields)
	} else {
		label := level.String()
		if p.color {
			label = levelStyles[level].Render(label)
		}
		line = encodeText(ts, label, msg, fields)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, line+"\n")
}

type entryLogger struct {
	provider *Provider
	fields   map[string]any
	ctx      context.Context
}

var (
	_ interfaces.Logger       = (*entryLogger)(nil)
	_ interfaces.FieldsLogger = (*entryLogger)(nil)
)

func (l *entryLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *entryLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *entryLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *entryLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *entryLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }
func (l *entryLogger) Fatal(msg string, args ...any) { l.log(LevelFatal, msg, args) }

func (l *entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return &entryLogger{provider: l.provider, fields: merged, ctx: l.ctx}
}

func (l *entryLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &entryLogger{provider: l.provider, fields: l.fields, ctx: ctx}
}

// log merges logger fields, then context fields, then call arguments; later
// sources win on key collisions.
func (l *entryLogger) log(level Level, msg string, args []any) {
	if l.provider == nil || level < l.provider.min {
		return
	}
	fields := make(map[string]any, len(l.fields)+len(args)/2+1)
	maps.Copy(fields, l.fields)
	maps.Copy(fields, logging.ContextFields(l.ctx))
	addArgs(fields, args)
	l.provider.write(level, msg, fields)
}

// addArgs reads key/value pairs. Values without a usable string key are
// stored positionally as field_N.
func addArgs(fields map[string]any, args []any) {
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields[positional(i/2)] = args[i]
			return
		}
		if key, ok := args[i].(string); ok && key != "" {
			fields[key] = args[i+1]
			continue
		}
		fields[positional(i/2)] = args[i+1]
	}
}

func positional(n int) string {
	return "field_" + strconv.Itoa(n)
}

func encodeText(ts time.Time, label, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(label)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(textValue(fields[key]))
	}
	return b.String()
}

func textValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return quote(stringify(v))
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if v == nil {
			return "null"
		}
		return v.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		return v.String()
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func quote(value string) string {
	if value == "" {
		return `""`
	}
	if strings.ContainsFunc(value, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(value)
	}
	return value
}

func encodeJSON(ts time.Time, level Level, msg string, fields map[string]any) string {
	obj := make(map[string]any, len(fields)+3)
	for key, value := range fields {
		obj[key] = jsonValue(value)
	}
	obj["time"] = ts.Format(time.RFC3339Nano)
	obj["level"] = strings.ToLower(level.String())
	obj["msg"] = msg

	data, err := json.Marshal(obj)
	if err != nil {
		// Fall back to text for values encoding/json rejects.
		return encodeText(ts, level.String(), msg, fields)
	}
	return string(data)
}

func jsonValue(value any) any {
	switch v := value.(type) {
	case nil, string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case json.Marshaler:
		return v
	default:
		return stringify(v)
	}
}
