package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
}

func TestWatchCmd_HasSourceFlag(t *testing.T) {
	flag := watchCmd.Flags().Lookup("source")
	assert.NotNil(t, flag)
	assert.Equal(t, "s", flag.Shorthand)
}

func TestWatchCmd_NoPipelineConfigured(t *testing.T) {
	original := pipelineFactory
	pipelineFactory = nil
	defer func() { pipelineFactory = original }()

	_, err := execute(t, "watch")

	assert.Error(t, err)
}
