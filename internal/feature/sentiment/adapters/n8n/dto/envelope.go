// Package dto は n8n Webhook 応答の外部スキーマです。
// 値の型が揺れるため、フィールドは寛容に読み取ります。
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrEnvelope は {success, data} の外枠が使えないことを示します。
var ErrEnvelope = errors.New("response envelope is unusable")

// Envelope は api ワークフローの共通レスポンスです。
type Envelope struct {
	Success *Flag           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Flag は真偽値です。Set ノードが出力する "true" や 1 も受け付けます。
type Flag bool

// UnmarshalJSON accepts JSON booleans, bool-like strings and numbers (non-zero is true).
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*f = Flag(t)
	case string:
		ok, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return fmt.Errorf("success %q is not a boolean", t)
		}
		*f = Flag(ok)
	case float64:
		*f = t != 0
	case nil:
		*f = false
	default:
		return fmt.Errorf("success of type %T is not a boolean", v)
	}
	return nil
}

// DecodeEnvelope は success が真で data が存在する場合に data を返します。
func DecodeEnvelope(body []byte) (json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Join(ErrEnvelope, err)
	}
	if env.Success == nil || !*env.Success {
		return nil, ErrEnvelope
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrEnvelope
	}
	return data, nil
}

// Cacheable reports whether a webhook body is worth caching: valid JSON, and when it
// carries a success flag, an envelope DecodeEnvelope would accept.
// Bare objects (the reddit-sentiment workflow) are accepted as is.
func Cacheable(body []byte) bool {
	if !json.Valid(body) {
		return false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return true
	}
	if _, wrapped := obj["success"]; !wrapped {
		return true
	}
	_, err := DecodeEnvelope(body)
	return err == nil
}

// Fields は型の揺れを許容する JSON オブジェクトです。
type Fields map[string]any

// DecodeFields decodes a JSON object, keeping numbers as json.Number.
func DecodeFields(raw []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var f Fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, ErrEnvelope
	}
	return f, nil
}

// DecodeList decodes a JSON array of objects. Any non-object element fails the whole list.
func DecodeList(raw []byte) ([]Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, ErrEnvelope
	}
	out := make([]Fields, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			return nil, ErrEnvelope
		}
		out = append(out, Fields(m))
	}
	return out, nil
}

// Number returns a finite numeric field. Numeric strings are accepted.
func (f Fields) Number(key string) (float64, bool) {
	var v float64
	switch x := f[key].(type) {
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		v = n
	case float64:
		v = x
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		v = n
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NumberOr returns the numeric field or def.
func (f Fields) NumberOr(key string, def float64) float64 {
	if v, ok := f.Number(key); ok {
		return v
	}
	return def
}

// IntOr returns the numeric field rounded to an int, or def.
func (f Fields) IntOr(key string, def int) int {
	if v, ok := f.Number(key); ok {
		return int(math.Round(v))
	}
	return def
}

// IntPtr returns a pointer to the rounded numeric field, or nil when absent.
func (f Fields) IntPtr(key string) *int {
	v, ok := f.Number(key)
	if !ok {
		return nil
	}
	n := int(math.Round(v))
	return &n
}

// String returns a non-empty string field. Numbers are formatted.
func (f Fields) String(key string) (string, bool) {
	switch x := f[key].(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return x, true
		}
	case json.Number:
		return x.String(), true
	}
	return "", false
}

// StringOr returns the string field or def.
func (f Fields) StringOr(key, def string) string {
	if s, ok := f.String(key); ok {
		return s
	}
	return def
}

// Time parses an RFC 3339 field, falling back to def.
func (f Fields) Time(key string, def time.Time) time.Time {
	s, ok := f.String(key)
	if !ok {
		return def
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return def
}

// Object returns a nested object field.
func (f Fields) Object(key string) (Fields, bool) {
	m, ok := f[key].(map[string]any)
	return Fields(m), ok
}

// List returns a nested array field keeping only object elements.
func (f Fields) List(key string) ([]Fields, bool) {
	items, ok := f[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]Fields, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, Fields(m))
		}
	}
	return out, true
}
