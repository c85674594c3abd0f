package cmd

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/aeroapi-demo-app/pkg/aeroapi"
)

func loadedCache(t *testing.T) *aeroapi.ReferenceCache {
	t.Helper()
	cache := aeroapi.NewReferenceCache()
	require.NoError(t, cache.LoadDefault())
	return cache
}

func TestPrintJSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestRunLookupAirport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runLookup(&buf, loadedCache(t), "TPA", false))

	var got []aeroapi.Airport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "KTPA", got[0].CodeICAO)
}

func TestRunLookupAirlineWildcard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runLookup(&buf, loadedCache(t), "U*", true))

	var got []aeroapi.Airline
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.NotEmpty(t, got)
}

func TestRunLookupNoMatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runLookup(&buf, loadedCache(t), "ZZZZ", false))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseFlagTime(t *testing.T) {
	got, err := parseFlagTime("start", "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseFlagTime("start", "2024-06-15T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = parseFlagTime("end", "yesterday")
	assert.ErrorContains(t, err, "--end")
}

func TestRootCommandTree(t *testing.T) {
	root := rootCmd(&app{})
	for _, name := range []string{"server", "airport", "delays", "flight", "track", "map", "operator", "lookup"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	for _, flag := range []string{"config", "debug", "show-urls"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}
