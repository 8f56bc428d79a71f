package assets

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// params is the query parameter set of one request. Setters skip empty values
// so that absent inputs are left out of the request instead of sent blank.
type params map[string]string

func (p params) str(key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		p[key] = val
	}
}

// strOr sets val, or def when val is empty.
func (p params) strOr(key, val, def string) {
	if val = strings.TrimSpace(val); val == "" {
		val = def
	}
	p[key] = val
}

func (p params) boolean(key string, v bool) {
	p[key] = strconv.FormatBool(v)
}

// boolOr sets *v, or def when v is nil.
func (p params) boolOr(key string, v *bool, def bool) {
	if v != nil {
		def = *v
	}
	p.boolean(key, def)
}

// flag sets key only when v is true; the server default applies otherwise.
func (p params) flag(key string, v bool) {
	if v {
		p.boolean(key, true)
	}
}

func (p params) integer(key string, v int) {
	p[key] = strconv.Itoa(v)
}

// list comma-joins vals and omits the key when nothing remains.
func (p params) list(key string, vals []string) {
	if joined := joinList(vals); joined != "" {
		p[key] = joined
	}
}

// listAlways comma-joins vals and sends the key even when the result is empty.
func (p params) listAlways(key string, vals []string) {
	p[key] = joinList(vals)
}

func (p params) millis(key string, t time.Time) {
	if !t.IsZero() {
		p[key] = strconv.FormatInt(t.UnixMilli(), 10)
	}
}

// metadata JSON-encodes md; an empty mapping is omitted.
func (p params) metadata(key string, md map[string]any) error {
	if len(md) == 0 {
		return nil
	}
	raw, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	p[key] = string(raw)
	return nil
}

func joinList(vals []string) string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, ",")
}
