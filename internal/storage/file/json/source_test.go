package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mocap-lab/glove-cluster/internal/storage"
)

func TestBlobStorage_StoreLoad(t *testing.T) {
	storage.DefaultDir = t.TempDir()

	blob := NewJsonBlob("eval", "curves", false)

	key := storage.Key{Run: "run-1", Hypothesis: "subject", Label: "elbow"}
	in := map[string][]float64{"scores": {3, 2, 1}}
	require.NoError(t, blob.Store(key, in))

	var out map[string][]float64
	require.NoError(t, blob.Load(key, &out))
	assert.Equal(t, in, out)

	var missing map[string][]float64
	err := blob.Load(storage.Key{Run: "run-2", Hypothesis: "subject", Label: "elbow"}, &missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.NotFoundErr)
}

func TestBlobShard(t *testing.T) {
	storage.DefaultDir = t.TempDir()

	shard := BlobShard("eval")
	p, err := shard("silhouette")
	require.NoError(t, err)

	key := storage.Key{Run: "run-1", Hypothesis: "gesture", Label: "sweep"}
	require.NoError(t, p.Store(key, []int{1, 2, 3}))

	var out []int
	require.NoError(t, p.Load(key, &out))
	assert.Equal(t, []int{1, 2, 3}, out)
}
