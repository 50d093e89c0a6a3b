package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/graphqlintel/graphqlintel/internal/config"
	"github.com/graphqlintel/graphqlintel/internal/ide"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestClassifyPathByExtension(t *testing.T) {
	k, ok := ClassifyPath("component.tsx", nil)
	require.True(t, ok)
	assert.Equal(t, "hosted-typescript", k.String())

	k, ok = ClassifyPath("schema.graphqls", nil)
	require.True(t, ok)
	assert.Equal(t, "schema", k.String())

	_, ok = ClassifyPath("README.md", nil)
	assert.False(t, ok)
}

func TestClassifyPathSniffsAmbiguousGraphQLExtension(t *testing.T) {
	k, ok := ClassifyPath("api.graphql", []byte("type Query { hero: String }"))
	require.True(t, ok)
	assert.Equal(t, "schema", k.String())

	k, ok = ClassifyPath("op.graphql", []byte("query GetHero { hero }"))
	require.True(t, ok)
	assert.Equal(t, "executable", k.String())
}

func TestWatcherDebouncesBurstIntoOneRebuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.graphqls"), []byte("type Query { hero: String }"), 0o644))

	cfg := config.Default(dir)
	cfg.Performance.DebounceMs = 30
	host := ide.NewAnalysisHost()

	w, err := New(host, cfg)
	require.NoError(t, err)

	var rebuilds int32
	done := make(chan struct{}, 8)
	w.OnRebuild = func() {
		atomic.AddInt32(&rebuilds, 1)
		done <- struct{}{}
	}

	require.NoError(t, w.Start())
	defer w.Stop()

	opPath := filepath.Join(dir, "op.graphql")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(opPath, []byte("query GetHeroQuery { hero }"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced rebuild")
	}
	time.Sleep(100 * time.Millisecond) // ensure no second rebuild sneaks in

	assert.Equal(t, int32(1), atomic.LoadInt32(&rebuilds), "one burst of writes should produce exactly one rebuild")

	snap := host.Snapshot()
	defer snap.Release()
	diags := snap.Diagnostics("file://" + opPath)
	assert.Empty(t, diags)
}

func TestLoadProjectFilesWalksAndClassifiesEveryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.graphqls"), []byte("type Query { hero: String }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "op.graphql"), []byte("query GetHeroQuery { hero }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not graphql"), 0o644))

	cfg := config.Default(dir)
	host := ide.NewAnalysisHost()

	require.NoError(t, LoadProjectFiles(host, cfg))

	snap := host.Snapshot()
	defer snap.Release()
	diags := snap.Diagnostics("file://" + filepath.Join(dir, "op.graphql"))
	assert.Empty(t, diags)
}

func TestLoadProjectFilesSkipsExcludedDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_modules", "vendored.graphql"), []byte("query Vendored { hero }"), 0o644))

	cfg := config.Default(dir)
	cfg.Exclude = append(cfg.Exclude, "node_modules/**")
	host := ide.NewAnalysisHost()

	require.NoError(t, LoadProjectFiles(host, cfg))

	vendoredURI := "file://" + filepath.Join(dir, "node_modules", "vendored.graphql")
	for _, uri := range host.URIs() {
		assert.NotEqual(t, vendoredURI, string(uri), "excluded directory's contents must never reach the registry")
	}
}
