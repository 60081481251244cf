package log

import (
	"bytes"
	stdlog "log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_LevelsAndTags(t *testing.T) {
	var buf bytes.Buffer

	l := &Default{Out: stdlog.New(&buf, "", 0), Level: LevelInfo}
	l.Debug("hidden")
	l.With("registry", "open").Info("intercepted", "class", "simple.Customer", "sort", "Entity")

	assert.Equal(t, "INF intercepted class=simple.Customer sort=Entity registry=open\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
