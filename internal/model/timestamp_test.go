package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshalString(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-14T09:26:53Z"`), &ts))
	assert.Equal(t, time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC), ts.Time)
}

func TestTimestampUnmarshalSecondsObject(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`{"seconds":1700000000,"nanoseconds":500000000}`), &ts))
	assert.Equal(t, time.Unix(1700000000, 500000000).UTC(), ts.Time)
}

func TestTimestampUnmarshalNumber(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`1700000000`), &ts))
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), ts.Time)
}

func TestTimestampUnmarshalNull(t *testing.T) {
	ts := NewTimestamp(time.Now())
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestTimestampMarshalRoundTrip(t *testing.T) {
	in := NewTimestamp(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-14T09:26:53Z"`, string(data))

	var out Timestamp
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Equal(out.Time))
}

func TestTimestampMarshalZeroAsNull(t *testing.T) {
	data, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestTimestampInsideStruct(t *testing.T) {
	// All three wire shapes can appear in the same payload.
	var a Assignment
	payload := `{
		"userId": "u1",
		"inductionId": "i1",
		"status": "assigned",
		"assignedAt": "2026-03-14T09:00:00Z",
		"availableFrom": {"seconds": 1700000000, "nanoseconds": 0},
		"dueDate": 1710000000
	}`
	require.NoError(t, json.Unmarshal([]byte(payload), &a))
	assert.Equal(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC), a.AssignedAt.Time)
	require.NotNil(t, a.AvailableFrom)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), a.AvailableFrom.Time)
	require.NotNil(t, a.DueDate)
	assert.Equal(t, time.Unix(1710000000, 0).UTC(), a.DueDate.Time)
}
