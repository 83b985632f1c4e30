package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"network", &NetworkError{Op: "list versions", Status: 502}, KindNetwork},
		{"validation", Validation("message", "Please enter a message"), KindValidation},
		{"unknown section", &UnknownSectionError{Title: "Appendix Z"}, KindUnknownSection},
		{"section not found", &SectionNotFoundError{Title: "Old"}, KindSectionNotFound},
		{"backend", &BackendError{Op: "save version", Message: "Version name is required"}, KindBackend},
		{"wrapped backend", fmt.Errorf("loading: %w", &BackendError{Message: "x"}), KindBackend},
		{"plain", errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestIsStatus(t *testing.T) {
	err := fmt.Errorf("delete: %w", &BackendError{Status: http.StatusNotFound, Message: "Version not found"})
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusInternalServerError))

	err = &NetworkError{Op: "print", Status: http.StatusBadGateway}
	assert.True(t, IsStatus(err, http.StatusBadGateway))
}

func TestNetworkErrorMessage(t *testing.T) {
	err := &NetworkError{Op: "list versions", Status: 500}
	assert.Equal(t, "list versions: HTTP error! status: 500", err.Error())

	inner := errors.New("connection refused")
	err = &NetworkError{Op: "chat", Err: inner}
	assert.ErrorIs(t, err, inner)
}
