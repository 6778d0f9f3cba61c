package conf

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	defer os.Clearenv()
	os.Exit(m.Run())
}

func TestGlobal(t *testing.T) {
	os.Setenv("WALLETAUTH_API_REQUEST_ID_HEADER", "X-Request-ID")
	os.Setenv("WALLETAUTH_AUTH_CHAIN_ID", "mainnet")
	os.Setenv("WALLETAUTH_AUTH_VALIDITY_WINDOW", "2m")
	os.Setenv("WALLETAUTH_AUTH_BIND_KEY_ADDRESS", "true")
	defer os.Unsetenv("WALLETAUTH_AUTH_CHAIN_ID")
	defer os.Unsetenv("WALLETAUTH_AUTH_BIND_KEY_ADDRESS")
	defer os.Unsetenv("WALLETAUTH_AUTH_VALIDITY_WINDOW")

	gc, err := LoadGlobal("")
	require.NoError(t, err)
	require.NotNil(t, gc)
	assert.Equal(t, "X-Request-ID", gc.API.RequestIDHeader)
	assert.Equal(t, "mainnet", gc.Auth.ChainID)
	assert.Equal(t, 2*time.Minute, gc.Auth.ValidityWindow)
	assert.True(t, gc.Auth.BindKeyAddress)
}

func TestGlobalDefaults(t *testing.T) {
	gc, err := LoadGlobal("")
	require.NoError(t, err)

	assert.Equal(t, MemoryDriver, gc.DB.Driver)
	assert.Equal(t, "OC Network DApp", gc.Auth.Domain)
	assert.Equal(t, "1.0.0", gc.Auth.Version)
	assert.Equal(t, "testnet", gc.Auth.ChainID)
	assert.Equal(t, 5*time.Minute, gc.Auth.ValidityWindow)
	assert.Equal(t, 10000, gc.Auth.NonceCapacity)
	assert.Equal(t, SchemeEd25519, gc.Auth.Scheme)
	assert.Equal(t, EncodingBase64, gc.Auth.KeyEncoding)
	assert.False(t, gc.Auth.BindKeyAddress)
	assert.NotEmpty(t, gc.Auth.DefaultStatement)
	assert.True(t, gc.Sweeper.Enabled)
	assert.Equal(t, time.Minute, gc.Sweeper.Interval)
}

func TestAuthConfigurationValidate(t *testing.T) {
	valid := func() AuthConfiguration {
		return AuthConfiguration{
			Domain:         "OC Network DApp",
			Version:        "1.0.0",
			ChainID:        "testnet",
			ValidityWindow: 5 * time.Minute,
			Scheme:         SchemeEd25519,
			KeyEncoding:    EncodingBase64,
		}
	}

	cases := []struct {
		desc   string
		mutate func(*AuthConfiguration)
		ok     bool
	}{
		{desc: "valid", mutate: func(*AuthConfiguration) {}, ok: true},
		{desc: "ethereum scheme", mutate: func(c *AuthConfiguration) { c.Scheme = SchemeEthereum }, ok: true},
		{desc: "empty domain", mutate: func(c *AuthConfiguration) { c.Domain = "" }},
		{desc: "bad version", mutate: func(c *AuthConfiguration) { c.Version = "one" }},
		{desc: "short window", mutate: func(c *AuthConfiguration) { c.ValidityWindow = time.Millisecond }},
		{desc: "unknown scheme", mutate: func(c *AuthConfiguration) { c.Scheme = "rsa" }},
		{desc: "unknown encoding", mutate: func(c *AuthConfiguration) { c.KeyEncoding = "base32" }},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cfg := valid()
			c.mutate(&cfg)
			err := cfg.Validate()
			if c.ok {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestDBConfigurationValidate(t *testing.T) {
	require.NoError(t, (&DBConfiguration{Driver: MemoryDriver}).Validate())
	require.Error(t, (&DBConfiguration{Driver: PostgresDriver}).Validate())
	require.NoError(t, (&DBConfiguration{Driver: PostgresDriver, URL: "postgres://localhost/db"}).Validate())
	require.Error(t, (&DBConfiguration{Driver: "mysql"}).Validate())
}

func TestCORSAllAllowedHeaders(t *testing.T) {
	c := &CORSConfiguration{AllowedHeaders: []string{"X-Custom", "Accept"}}
	assert.Equal(t, []string{"Accept", "Content-Type", "X-Custom"}, c.AllAllowedHeaders([]string{"Accept", "Content-Type"}))
}
