package model

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Timestamp normalizes the three timestamp shapes assignment data arrives
// with: an epoch-seconds object {"seconds": n, "nanoseconds": n}, an
// ISO-8601 string, or a native datetime. All of them decode into a single
// time.Time so the rest of the code never branches on wire shape.
type Timestamp struct {
	time.Time
}

// Now wraps the given time in a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// secondsObject is the epoch-seconds wire shape.
type secondsObject struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// MarshalJSON renders the timestamp as an ISO-8601 string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts an ISO-8601 string, an epoch-seconds number, an
// epoch-seconds object, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp string %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	case '{':
		var obj secondsObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		t.Time = time.Unix(obj.Seconds, obj.Nanoseconds).UTC()
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid timestamp value %s: %w", string(data), err)
		}
		sec, frac := math.Modf(f)
		t.Time = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
		return nil
	}
}

// MarshalBSONValue stores the timestamp as a native BSON datetime.
func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time)
}

// UnmarshalBSONValue accepts a BSON datetime, an ISO-8601 string, or an
// embedded seconds document.
func (t *Timestamp) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bsontype.DateTime:
		var tm time.Time
		if err := raw.Unmarshal(&tm); err != nil {
			return err
		}
		t.Time = tm.UTC()
		return nil
	case bsontype.String:
		var s string
		if err := raw.Unmarshal(&s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp string %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	case bsontype.EmbeddedDocument:
		var obj struct {
			Seconds     int64 `bson:"seconds"`
			Nanoseconds int64 `bson:"nanoseconds"`
		}
		if err := raw.Unmarshal(&obj); err != nil {
			return err
		}
		t.Time = time.Unix(obj.Seconds, obj.Nanoseconds).UTC()
		return nil
	case bsontype.Null:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot decode %s into Timestamp", bt)
	}
}
