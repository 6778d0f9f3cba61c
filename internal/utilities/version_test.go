package utilities

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVersionParseSemver(t *testing.T) {
	cases := []struct {
		str               string
		err               bool
		maj, min, pat, rc uint64
	}{
		{str: "1.0.0", maj: 1},
		{str: "v1.4.2", maj: 1, min: 4, pat: 2},
		{str: "0.3.1-rc.4", min: 3, pat: 1, rc: 4},
		{str: "0.3.1-rc4-g33b87ae0", min: 3, pat: 1, rc: 4},
		{str: "rc2.10.3-rc-7", maj: 2, min: 10, pat: 3, rc: 7},
		{str: "2.5", maj: 2, min: 5},
		{str: "", err: true},
		{str: "abc", err: true},
	}

	for _, tc := range cases {
		t.Run(tc.str, func(t *testing.T) {
			vi, err := parseSemver(tc.str)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.maj, vi.Major)
			require.Equal(t, tc.min, vi.Minor)
			require.Equal(t, tc.pat, vi.Patch)
			require.Equal(t, tc.rc, vi.RC)
		})
	}
}

func TestInitVersionMetrics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, initVersionMetrics(ctx, "1.2.3"))

	// unparseable versions report zeros instead of failing startup
	require.NoError(t, initVersionMetrics(ctx, "unknown"))
}
