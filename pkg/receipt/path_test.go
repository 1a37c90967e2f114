package receipt

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func decodeRoot(t *testing.T, raw string) any {
	t.Helper()
	var root any
	require.NoError(t, json.Unmarshal([]byte(raw), &root))
	return root
}

func TestLookup(t *testing.T) {
	root := decodeRoot(t, `{
		"contract": [
			{"parameter": {"claimType": 0, "receiver": "klv1validator"}},
			{"parameter": {"claimType": 1}}
		],
		"nested": {"list": [[1, 2], [3]]}
	}`)

	v, ok := Lookup(root, "contract[0].parameter.receiver")
	require.True(t, ok)
	require.Equal(t, "klv1validator", v)

	v, ok = Lookup(root, "contract[1].parameter.claimType")
	require.True(t, ok)
	require.Equal(t, float64(1), v)

	v, ok = Lookup(root, "nested.list[1][0]")
	require.True(t, ok)
	require.Equal(t, float64(3), v)
}

func TestLookupAbsence(t *testing.T) {
	root := decodeRoot(t, `{"contract": [{"parameter": {}}]}`)

	for _, path := range []string{
		"contract[5].parameter",
		"contract[-1].parameter",
		"contract[0].missing",
		"missing",
		"contract[x]",
		"contract[0].parameter.deeper.still",
		"",
	} {
		_, ok := Lookup(root, path)
		require.False(t, ok, "path %q", path)
	}
}

func TestLookupString(t *testing.T) {
	root := decodeRoot(t, `{"a": {"b": "text", "c": 7}}`)

	s, ok := LookupString(root, "a.b")
	require.True(t, ok)
	require.Equal(t, "text", s)

	_, ok = LookupString(root, "a.c")
	require.False(t, ok)
}
