// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete

import "encoding/json"

// VariableItems is the decoded response body of a variable-values
// endpoint: either a plain JSON array of strings, or an object carrying
// the array plus incompleteness and preselection hints.
type VariableItems struct {
	Items        []string
	IsIncomplete bool
	Preselect    string
	HasPreselect bool
}

// UnmarshalJSON accepts either a bare `["a", "b"]` array or the object
// shape `{"items": [...], "isIncomplete": bool, "preselect": string}`.
func (v *VariableItems) UnmarshalJSON(data []byte) error {
	var simple []string
	if err := json.Unmarshal(data, &simple); err == nil {
		v.Items = simple
		v.IsIncomplete = false
		v.Preselect = ""
		v.HasPreselect = false
		return nil
	}
	var obj struct {
		Items        []string `json:"items"`
		IsIncomplete bool     `json:"isIncomplete"`
		Preselect    *string  `json:"preselect"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	v.Items = obj.Items
	v.IsIncomplete = obj.IsIncomplete
	if obj.Preselect != nil {
		v.Preselect = *obj.Preselect
		v.HasPreselect = true
	}
	return nil
}

// Documentation is the decoded response body of a documentation endpoint:
// either a bare JSON string (plain text) or an object carrying a markup
// kind alongside the value.
type Documentation struct {
	Kind  string
	Value string
}

// UnmarshalJSON accepts either a bare JSON string or
// `{"kind": "plaintext"|"markdown", "value": string}`.
func (d *Documentation) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Kind = "plaintext"
		d.Value = s
		return nil
	}
	var obj struct {
		Kind  string `json:"kind"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.Kind = obj.Kind
	d.Value = obj.Value
	return nil
}
