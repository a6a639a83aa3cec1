package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigReadsBaseURLFromEnv(t *testing.T) {
	t.Setenv("CAPE_API_BASE_URL", "https://api.cape.example")

	require.NoError(t, initConfig(nil, nil))

	assert.Equal(t, "https://api.cape.example", viper.GetString("api.base_url"))
}
