package metering

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVerification(t *testing.T) {
	var buf bytes.Buffer

	std := logrus.StandardLogger()
	out, formatter := std.Out, std.Formatter
	defer func() {
		std.SetOutput(out)
		std.SetFormatter(formatter)
	}()

	std.SetOutput(&buf)
	std.SetFormatter(&logrus.JSONFormatter{})

	RecordVerification("req-1", &VerificationData{
		Scheme:  "ed25519",
		ChainID: "testnet",
		Domain:  "OC Network DApp",
		Address: "0xabc123",
		Extra:   map[string]interface{}{"key": "0xabc123_1"},
	})

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fields))

	assert.Equal(t, "Verification", fields["msg"])
	assert.Equal(t, true, fields["metering"])
	assert.Equal(t, "wallet_verification", fields["action"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "ed25519", fields["scheme"])
	assert.Equal(t, "testnet", fields["chain_id"])
	assert.Equal(t, "0xabc123", fields["address"])
	assert.Equal(t, "0xabc123_1", fields["key"])
}
