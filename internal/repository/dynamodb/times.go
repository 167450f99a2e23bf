package dynamodb

import "time"

// timeFormat is how timestamps are stored on items, matching the ISO-8601
// strings the rest of the stack produces.
const timeFormat = time.RFC3339Nano

// parseTime parses a stored timestamp, tolerating second precision.
func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Parse(time.RFC3339, value)
	}
	return t, nil
}
