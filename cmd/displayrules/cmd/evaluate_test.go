package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
posts:
  - {id: 7, type: post, slug: hello-world}
  - {id: 30, type: book, slug: dune}
terms:
  - {id: 3, taxonomy: category, slug: news, name: News}
relationships:
  - {post_id: 7, term_id: 3}
taxonomies:
  - {name: category, object_types: [post]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runEvaluateCmd(t *testing.T, args ...string) (decisionOutput, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"evaluate", "--log-level", "error"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())

	var decision decisionOutput
	if out.Len() > 0 {
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &decision))
	}
	return decision, err
}

func TestEvaluateCommand(t *testing.T) {
	dir := t.TempDir()
	catalog := writeFile(t, dir, "catalog.yaml", testCatalog)

	shown := writeFile(t, dir, "shown.yaml", `
item_id: 12
conditions:
  show: [custom_post_all_book, post_category]
  operator: [1, 1]
  ids: ["", news]
query:
  view: singular
  object_id: 7
`)
	hidden := writeFile(t, dir, "hidden.json", `{
  "item_id": 12,
  "rules": [{"kind": "post_selected", "operator": false, "ids": "7"}],
  "query": {"view": "singular", "object_id": 7}
}`)

	t.Run("shown", func(t *testing.T) {
		decision, err := runEvaluateCmd(t, shown, "--catalog", catalog, "--fail-hidden=false")
		require.NoError(t, err)
		assert.True(t, decision.Show)
		assert.Equal(t, int64(12), decision.ItemID)
		assert.Equal(t, 1, decision.MatchedIndex)
		assert.Equal(t, "post_category", decision.Kind)
		assert.NotEmpty(t, decision.DecisionID)
	})

	t.Run("hidden", func(t *testing.T) {
		decision, err := runEvaluateCmd(t, hidden, "--catalog", catalog, "--fail-hidden=false")
		require.NoError(t, err)
		assert.False(t, decision.Show)
		assert.Equal(t, -1, decision.MatchedIndex)
	})

	t.Run("fail hidden", func(t *testing.T) {
		_, err := runEvaluateCmd(t, hidden, "--catalog", catalog, "--fail-hidden")
		assert.Error(t, err)
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := runEvaluateCmd(t, filepath.Join(dir, "absent.yaml"), "--catalog", catalog)
		assert.Error(t, err)
	})
}
