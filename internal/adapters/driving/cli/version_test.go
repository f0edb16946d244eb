package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "appsec-mcp version test-version-1.0.0")
}

func TestVersionCmd_SkipsWiring(t *testing.T) {
	previous := app
	app = nil
	defer func() { app = previous }()

	_, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Nil(t, app)
}
