package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in     string
		want   Status
		wantOK bool
	}{
		{"", StatusNotStarted, true},
		{"Not started", StatusNotStarted, true},
		{"In progress", StatusInProgress, true},
		{"Complete", StatusComplete, true},
		{"Blocked", StatusBlocked, true},
		{"Closed", StatusClosed, true},
		{"complete", Status("complete"), false},
		{"Done", Status("Done"), false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStatusesAreValid(t *testing.T) {
	assert.Len(t, Statuses, 5)
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
}
