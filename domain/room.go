// Package domain contains core concepts of the live coordinator.
// This file defines room identifiers and related rules.
// No runtime, network, or UI logic should be added here.
package domain

import "encoding/json"

// RoomID identifies a live room: the audience of one event's detail view.
// The event store uses numeric ids but nothing here depends on that, so the
// id space stays opaque. A room exists only while it has members.
type RoomID string

func (r *RoomID) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	*r = RoomID(s)
	return nil
}

// Eviction records one membership removed by a disconnect sweep,
// with the member count left behind in that room.
type Eviction struct {
	Room      RoomID
	Identity  Identity
	Remaining int
}

// flexString accepts both JSON strings and numbers. The REST layer emits
// numeric event ids while clients echo them back as strings.
func flexString(data []byte) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
