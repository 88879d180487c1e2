package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

// execute runs the root command isolated from any user config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLUSTER_INFO_NODE_INFO", "")
	t.Setenv("CLUSTER_INFO_CLUSTER_NAME", "")

	cmd := NewClusterInfoCommand()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

var commonArgs = []string{"-i", "testdata/two_nodes.json", "--timezone", "UTC", "--cluster-name", "hilbert"}

func TestSubcommandsRegistered(t *testing.T) {
	cmd := NewClusterInfoCommand()

	names := []string{}
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"nodes", "summary", "queues", "version"})
}

func TestCombinedReport(t *testing.T) {
	args := append([]string{}, commonArgs...)
	args = append(args, "--show-node-state", "all", "--node-list", "name", "--cluster-info", "--queue-resources", "machine")

	out, err := execute(t, args...)
	require.NoError(t, err)
	golden.Assert(t, out, "two_nodes_full.golden")
}

func TestNodesCommand(t *testing.T) {
	args := append([]string{"nodes"}, commonArgs...)
	args = append(args, "-o", "json")

	out, err := execute(t, args...)
	require.NoError(t, err)

	var got struct {
		Cluster string `json:"cluster"`
		Nodes   []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "hilbert", got.Cluster)
	// online nodes only by default
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "node-a", got.Nodes[0].Name)
}

func TestSummaryCommand(t *testing.T) {
	out, err := execute(t, append([]string{"summary"}, commonArgs...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "=== Cluster status hilbert at 2023-11-14T22:13:20")
	assert.Contains(t, out, "Total nodes: 2 (online 1 / 50.0%)")
	assert.NotContains(t, out, "=== node id")
}

func TestQueuesCommand(t *testing.T) {
	args := append([]string{"queues"}, commonArgs...)
	args = append(args, "--show-node-state", "all")

	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Resource summary (state: machine) for cluster hilbert")
	assert.Contains(t, out, "Qlist: batch")
	assert.Contains(t, out, "Qlist: gpu")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "-o", "json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "cluster-info", got["program"])
}

func TestConfigFileDefaults(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "cluster-info.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("cluster-name: fromfile\nnode-list: \"no\"\ncluster-info: true\n"), 0o600))

	args := []string{"-i", "testdata/two_nodes.json", "--timezone", "UTC", "--config", cfg}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Cluster status fromfile at")
	assert.NotContains(t, out, "=== node id")

	// flags win over the file
	out, err = execute(t, append(args, "--cluster-name", "hilbert")...)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Cluster status hilbert at")
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing inventory file", args: []string{"-i", "testdata/missing.json"}},
		{name: "bad sort order", args: append([]string{"--node-list", "weight"}, commonArgs...)},
		{name: "negative top n", args: append([]string{"--show-first-n", "-1"}, commonArgs...)},
		{name: "bad state filter", args: append([]string{"--show-node-state", "sleeping"}, commonArgs...)},
		{name: "bad output format", args: append([]string{"-o", "xml"}, commonArgs...)},
		{name: "bad timezone", args: []string{"-i", "testdata/two_nodes.json", "--timezone", "Mars/Olympus"}},
		{name: "unexpected argument", args: append([]string{"extra"}, commonArgs...)},
		{name: "missing config file", args: append([]string{"--config", "testdata/none.yaml"}, commonArgs...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
