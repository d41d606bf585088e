package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_Embedded(t *testing.T) {
	vs, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, vs)
	assert.Equal(t, "0001_sessions", vs[0])
}

func TestVersions_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("SELECT 1")},
		"migrations/0001_a.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":  {Data: []byte("notes")},
		"migrations/sub/x.sql":  {Data: []byte("SELECT 1")},
		"migrations/0010_c.sql": {Data: []byte("SELECT 1")},
	}
	vs, err := versions(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a", "0002_b", "0010_c"}, vs)
}

func TestVersions_MissingDir(t *testing.T) {
	_, err := versions(fstest.MapFS{})
	require.Error(t, err)
}
