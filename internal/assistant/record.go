package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Mandatory record keys.
const (
	KeyID   = "ID"
	KeyName = "Name"
)

// Record is one configured device. It is an open mapping: ID and Name are
// always present, everything else belongs to the device type.
//
// Numbers decoded from the store are kept as json.Number so identifiers and
// variable references survive a write-back unchanged.
type Record map[string]any

// ID returns the device identifier, "" when unassigned.
func (r Record) ID() string {
	return r.String(KeyID)
}

// Name returns the display name.
func (r Record) Name() string {
	return r.String(KeyName)
}

// String returns the value under key as a string ("" when absent).
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Ref returns the live-value reference stored under key.
// A missing key, "" and "0" all mean "not wired".
func (r Record) Ref(key string) string {
	ref := r.String(key)
	if ref == "0" {
		return ""
	}
	return ref
}

// decodeRecords parses a stored property value. An empty value is an empty list.
func decodeRecords(raw []byte) ([]Record, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrInvalidConfiguration, i)
		}
	}
	return records, nil
}

// encodeRecords serialises records for SetProperty.
func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	return data, nil
}
