package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// EntryCursor is the position of the last entry of a page in (date, set_id, entry_id) order.
type EntryCursor struct {
	Date    time.Time
	SetID   string
	EntryID string
}

// After reports whether the position (date, setID, entryID) sorts strictly after the cursor.
func (c EntryCursor) After(date time.Time, setID, entryID string) bool {
	if !date.Equal(c.Date) {
		return date.After(c.Date)
	}
	if setID != c.SetID {
		return setID > c.SetID
	}
	return entryID > c.EntryID
}

// EncodeEntryToken creates a base64 encoded token from the last entry of a page.
func EncodeEntryToken(c EntryCursor) string {
	return EncodeMultiFieldToken(c.Date.Format(dateFormat), c.SetID, c.EntryID)
}

// DecodeEntryToken parses a token produced by EncodeEntryToken.
func DecodeEntryToken(token string) (EntryCursor, error) {
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return EntryCursor{}, err
	}
	if len(parts) != 3 {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (field count)")
	}
	date, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return EntryCursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	return EntryCursor{Date: date, SetID: parts[1], EntryID: parts[2]}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	return strings.Split(string(decodedBytes), "|"), nil
}
