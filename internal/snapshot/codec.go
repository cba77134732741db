package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// ErrUnknownVersion is returned when no record shape accepts the input.
var ErrUnknownVersion = errors.New("unknown snapshot record version")

// Envelope is the on-disk wrapper around a record.
type Envelope struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps rec in a v4 envelope.
func Encode(rec RecordV4) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	out, err := json.Marshal(Envelope{ID: IDv4, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return out, nil
}

// Decode reads an envelope of any supported version and upgrades it to v4.
// It returns the id of the record that was read. Tagged records ignore
// arrays they do not know. An envelope without an id is matched on its
// field names: the outside-to-outside cap marks v4, any v2-only array marks
// v2, and everything else reads as v3. Untagged data must match that shape
// exactly.
func Decode(b []byte) (RecordV4, string, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return RecordV4{}, "", fmt.Errorf("decode envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return RecordV4{}, "", fmt.Errorf("decode envelope: missing data")
	}

	if env.ID != "" {
		rec, err := decodeAs(env.ID, env.Data, false)
		if err != nil {
			return RecordV4{}, env.ID, err
		}
		return rec, env.ID, nil
	}

	id, err := guessVersion(env.Data)
	if err != nil {
		return RecordV4{}, "", fmt.Errorf("%w: %v", ErrUnknownVersion, err)
	}
	rec, err := decodeAs(id, env.Data, true)
	if err != nil {
		return RecordV4{}, "", fmt.Errorf("%w: %v", ErrUnknownVersion, err)
	}
	return rec, id, nil
}

func decodeAs(id string, data []byte, strict bool) (RecordV4, error) {
	switch id {
	case IDv4:
		rec := newRecordV4()
		if err := unmarshalRecord(id, data, &rec, strict); err != nil {
			return RecordV4{}, err
		}
		return rec, nil
	case IDv3:
		rec := newRecordV3()
		if err := unmarshalRecord(id, data, &rec, strict); err != nil {
			return RecordV4{}, err
		}
		return rec.Upgrade(), nil
	case IDv2:
		rec := newRecordV2()
		if err := unmarshalRecord(id, data, &rec, strict); err != nil {
			return RecordV4{}, err
		}
		return rec.Upgrade().Upgrade(), nil
	default:
		return RecordV4{}, fmt.Errorf("%w: %q", ErrUnknownVersion, id)
	}
}

func unmarshalRecord(id string, data []byte, v any, strict bool) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", id, err)
	}
	if strict {
		return nil
	}
	if ignored := unknownFields(data, fieldNames(reflect.TypeOf(v).Elem())); len(ignored) > 0 {
		slog.Warn("ignoring unknown snapshot fields", "record", id, "fields", ignored)
	}
	return nil
}

const v4OnlyField = "globaloutsidetooutsidemaxperc"

var v2OnlyFields = difference(fieldNames(reflect.TypeOf((*RecordV2)(nil)).Elem()), fieldNames(reflect.TypeOf((*RecordV3)(nil)).Elem()))

func guessVersion(data []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return "", err
	}
	for name := range fields {
		if strings.ToLower(name) == v4OnlyField {
			return IDv4, nil
		}
	}
	for name := range fields {
		if v2OnlyFields[strings.ToLower(name)] {
			return IDv2, nil
		}
	}
	return IDv3, nil
}

// fieldNames lists the lower-cased JSON names of a record struct; the
// decoder matches names case-insensitively.
func fieldNames(t reflect.Type) map[string]bool {
	names := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			maps.Copy(names, fieldNames(f.Type))
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = true
	}
	return names
}

func difference(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	return out
}

// unknownFields returns the sorted top-level keys of data that known does
// not name.
func unknownFields(data []byte, known map[string]bool) []string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	var out []string
	for name := range fields {
		if !known[strings.ToLower(name)] {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
