package logger

import (
	"bytes"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbose(false)

	Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debugf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(log.Fields{"run": "abc"}).Info("scan finished")
	Errorf("boom: %s", "x")
	assert.Contains(t, buf.String(), "run=abc")
	assert.Contains(t, buf.String(), "scan finished")
	assert.Contains(t, buf.String(), "boom: x")
}
