package models

import "fmt"

// Vector3 is a position or direction in region coordinates.
type Vector3 struct {
	X float32 `json:"x" mapstructure:"x" yaml:"x"`
	Y float32 `json:"y" mapstructure:"y" yaml:"y"`
	Z float32 `json:"z" mapstructure:"z" yaml:"z"`
}

// String formats the vector as "<x, y, z>".
func (v Vector3) String() string {
	return fmt.Sprintf("<%g, %g, %g>", v.X, v.Y, v.Z)
}

// AvatarData is the appearance record of an avatar. Data maps appearance
// slots (wearables, attachments, visual params) to values; attachment and
// wearable slots hold inventory item ids.
type AvatarData struct {
	AvatarType int               `json:"avatar_type"`
	Data       map[string]string `json:"data"`
}

// Clone returns a deep copy of the appearance.
func (a *AvatarData) Clone() *AvatarData {
	if a == nil {
		return nil
	}
	c := &AvatarData{AvatarType: a.AvatarType, Data: make(map[string]string, len(a.Data))}
	for k, v := range a.Data {
		c.Data[k] = v
	}
	return c
}

// GridUserInfo holds the home and last known location of a user.
type GridUserInfo struct {
	UserID       string  `json:"user_id"`
	HomeRegionID string  `json:"home_region_id"`
	HomePosition Vector3 `json:"home_position"`
	HomeLookAt   Vector3 `json:"home_look_at"`
	LastRegionID string  `json:"last_region_id"`
	LastPosition Vector3 `json:"last_position"`
	LastLookAt   Vector3 `json:"last_look_at"`
	Online       bool    `json:"online"`
}
