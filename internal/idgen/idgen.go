package idgen

import (
	"strings"

	"github.com/google/uuid"
)

// NewFunc returns a new identifier; tests replace it for deterministic names.
var NewFunc = func() string { return strings.ReplaceAll(uuid.New().String(), "-", "") }

// New returns NewFunc().
func New() string { return NewFunc() }
