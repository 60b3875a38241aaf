package model

import "github.com/rcliao/tempnotes/internal/codec"

// Usage is the persisted state whose serialized size approximates storage use.
type Usage struct {
	Draft    string          `json:"draft"`
	Items    []Entry         `json:"items"`
	Recycle  []RecycledEntry `json:"recycle"`
	Settings UsageSettings   `json:"settings"`
}

// UsageSettings are the display settings counted toward usage.
type UsageSettings struct {
	Theme    string `json:"theme"`
	FontSize int    `json:"fontSize"`
}

// Bytes estimates the storage footprint as two bytes per UTF-16 unit of the
// JSON form.
func (u Usage) Bytes() int {
	if u.Items == nil {
		u.Items = []Entry{}
	}
	if u.Recycle == nil {
		u.Recycle = []RecycledEntry{}
	}
	return codec.EstimateBytes(u)
}
