package models

import (
	"encoding/json"
	"strings"
)

// GenerateRequest is the idea generation form
type GenerateRequest struct {
	Niche     string   `form:"niche" json:"niche" binding:"required"`
	WebSearch Checkbox `form:"web_search" json:"web_search"`
}

// Checkbox is an HTML checkbox value. Forms send "on" when ticked and nothing otherwise;
// JSON clients may send a boolean instead.
type Checkbox bool

// UnmarshalParam implements gin's binding.BindUnmarshaler for form and query values.
func (c *Checkbox) UnmarshalParam(param string) error {
	*c = Checkbox(parseCheckbox(param))
	return nil
}

func (c *Checkbox) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Checkbox(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = Checkbox(parseCheckbox(s))
	return nil
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
