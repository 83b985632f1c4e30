package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/draftdesk/internal/ui"
)

func TestParseShellLine(t *testing.T) {
	tests := []struct {
		line string
		ev   ui.Event
		args []string
		quit bool
	}{
		{"summarize competitors", ui.EventSendMessage, []string{"summarize competitors"}, false},
		{"  ", "", nil, false},
		{"/load Market Research", ui.EventLoadResponse, []string{"Market Research"}, false},
		{"/versions", ui.EventListVersions, nil, false},
		{"/set Risk Assessment = schedule slip", ui.EventEditSection, []string{"Risk Assessment = schedule slip"}, false},
		{"/quit", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			ev, args, quit := parseShellLine(tt.line)
			assert.Equal(t, tt.ev, ev)
			assert.Equal(t, tt.args, args)
			assert.Equal(t, tt.quit, quit)
		})
	}
}

func TestSectionAndText(t *testing.T) {
	title, text, err := sectionAndText([]string{"Risk Assessment = schedule = slip"})
	require.NoError(t, err)
	assert.Equal(t, "Risk Assessment", title)
	assert.Equal(t, "schedule = slip", text)

	_, _, err = sectionAndText([]string{"no separator"})
	assert.Error(t, err)
}

func TestTextArg(t *testing.T) {
	got, err := textArg(strings.NewReader("from stdin\n"), []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	got, err = textArg(nil, []string{"three", "vendors"})
	require.NoError(t, err)
	assert.Equal(t, "three vendors", got)
}

func TestApplicabilityBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("█", 10)+strings.Repeat("░", 10)+"]", applicabilityBar(50))
	assert.Equal(t, "["+strings.Repeat("░", 20)+"]", applicabilityBar(-3))
	assert.Equal(t, "["+strings.Repeat("█", 20)+"]", applicabilityBar(140))
}

func TestOnOff(t *testing.T) {
	on, err := onOff("ON")
	require.NoError(t, err)
	assert.True(t, on)
	_, err = onOff("sometimes")
	assert.Error(t, err)
}
