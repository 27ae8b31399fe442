package server_test

import (
	"testing"

	"airdrop-ledger/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		port    string
		wantErr bool
	}{
		{"Default", "8080", false},
		{"Low", "1", false},
		{"Empty", "", true},
		{"Zero", "0", true},
		{"Too Large", "70000", true},
		{"Not A Number", "http", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":9090", server.Config{Port: "9090"}.Address())
}

func TestConfig_CheckAuth(t *testing.T) {
	assert.ErrorContains(t, server.Config{}.CheckAuth(), "--insecure")
	assert.NoError(t, server.Config{ApiKey: "secret"}.CheckAuth())
	assert.NoError(t, server.Config{Insecure: true}.CheckAuth())
}
