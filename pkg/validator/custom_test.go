package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type eventParams struct {
	Title     string  `json:"title" binding:"required"`
	EventDate *string `json:"event_date" binding:"omitempty,isodate"`
	EventTime *string `json:"event_time" binding:"omitempty,hhmm"`
}

func strPtr(s string) *string { return &s }

func TestCustomValidator_EventFields(t *testing.T) {
	v := NewCustomValidator()
	v.lazyinit()
	Register(v.Validate)

	tests := []struct {
		name    string
		params  *eventParams
		wantErr bool
	}{
		{"absent event fields", &eventParams{Title: "a"}, false},
		{"valid date and time", &eventParams{Title: "a", EventDate: strPtr("2025-10-23"), EventTime: strPtr("17:00")}, false},
		{"invalid date", &eventParams{Title: "a", EventDate: strPtr("2025-13-01")}, true},
		{"short date", &eventParams{Title: "a", EventDate: strPtr("2025-1-1")}, true},
		{"invalid time", &eventParams{Title: "a", EventTime: strPtr("24:00")}, true},
		{"missing title", &eventParams{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
