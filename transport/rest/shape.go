package rest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/buzkaaclicker/userconf"
)

// ShapeError reports a request body whose JSON does not have the expected
// form, before any value reaches the profile.
type ShapeError struct {
	Field    string
	Expected string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: expected %s", e.Field, e.Expected)
}

var jsonNull = []byte("null")

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func parseUserInfoUpdate(body []byte) (userconf.UserInfoUpdate, error) {
	var raw struct {
		Name       json.RawMessage `json:"name"`
		Priority   json.RawMessage `json:"priority"`
		ProfilePic json.RawMessage `json:"profilePic"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return userconf.UserInfoUpdate{}, &ShapeError{Field: "body", Expected: "object"}
	}

	var update userconf.UserInfoUpdate
	if !isNull(raw.Name) {
		if err := json.Unmarshal(raw.Name, &update.Name); err != nil {
			return userconf.UserInfoUpdate{}, &ShapeError{Field: "name", Expected: "string or null"}
		}
	}

	if isNull(raw.Priority) {
		return userconf.UserInfoUpdate{}, &ShapeError{Field: "priority", Expected: "number"}
	}
	var priority float64
	if err := json.Unmarshal(raw.Priority, &priority); err != nil {
		return userconf.UserInfoUpdate{}, &ShapeError{Field: "priority", Expected: "number"}
	}
	p, err := userconf.PriorityFromNumber(priority)
	if err != nil {
		return userconf.UserInfoUpdate{}, err
	}
	update.Priority = p

	if !isNull(raw.ProfilePic) {
		pic, err := parseProfilePic(raw.ProfilePic)
		if err != nil {
			return userconf.UserInfoUpdate{}, err
		}
		update.ProfilePic = pic
	}
	return update, nil
}

func parseProfilePic(raw json.RawMessage) (*userconf.ProfilePic, error) {
	var fields struct {
		URL json.RawMessage `json:"url"`
		Key json.RawMessage `json:"key"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ShapeError{Field: "profilePic", Expected: "object or null"}
	}

	pic := &userconf.ProfilePic{}
	if !isNull(fields.URL) {
		if err := json.Unmarshal(fields.URL, &pic.URL); err != nil {
			return nil, &ShapeError{Field: "profilePic.url", Expected: "string"}
		}
	}
	if !isNull(fields.Key) {
		var encoded string
		if err := json.Unmarshal(fields.Key, &encoded); err != nil {
			return nil, &ShapeError{Field: "profilePic.key", Expected: "base64 string"}
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, &ShapeError{Field: "profilePic.key", Expected: "base64 string"}
		}
		pic.Key = key
	}
	return pic, nil
}

func parseEnabled(body []byte) (bool, error) {
	var raw struct {
		Enabled json.RawMessage `json:"enabled"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return false, &ShapeError{Field: "body", Expected: "object"}
	}
	var enabled bool
	if isNull(raw.Enabled) || json.Unmarshal(raw.Enabled, &enabled) != nil {
		return false, &ShapeError{Field: "enabled", Expected: "bool"}
	}
	return enabled, nil
}
