package report

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
	"sigs.k8s.io/yaml"

	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/diagnostics"
	"github.com/neutree-ai/cluster-info/internal/inventory"
	"github.com/neutree-ai/cluster-info/internal/node"
)

func twoNodeCluster(t *testing.T) *cluster.Cluster {
	t.Helper()

	data, err := os.ReadFile("testdata/two_nodes.json")
	require.NoError(t, err)

	doc, err := inventory.Parse(data)
	require.NoError(t, err)

	c, err := cluster.New("hilbert", doc,
		cluster.WithLocation(time.UTC),
		cluster.WithRand(rand.New(rand.NewPCG(1, 1))),
	)
	require.NoError(t, err)

	return c
}

func render(t *testing.T, r *Report, format Format) string {
	t.Helper()

	var buf bytes.Buffer

	p, err := NewPrinter(&buf, format)
	require.NoError(t, err)
	require.NoError(t, p.Print(r))

	return buf.String()
}

func TestTextReport(t *testing.T) {
	c := twoNodeCluster(t)

	tests := []struct {
		name   string
		opts   Options
		golden string
	}{
		{
			name: "listing summary and queues",
			opts: Options{
				List:    &cluster.ListOptions{Type: cluster.TypeAll, State: cluster.StateAll, Sort: cluster.SortName},
				Summary: true,
				Queues:  &QueueOptions{State: cluster.StateAll, Kind: cluster.ResourceMachine},
			},
			golden: "two_nodes_full.golden",
		},
		{
			name: "free capacity of online queues",
			opts: Options{
				Queues: &QueueOptions{State: cluster.StateOnline, Kind: cluster.ResourceFree},
			},
			golden: "online_free_queues.golden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(c, tt.opts)
			require.NoError(t, err)

			golden.Assert(t, render(t, r, FormatText), tt.golden)
		})
	}
}

func TestEmptyReport(t *testing.T) {
	r, err := Build(twoNodeCluster(t), Options{})
	require.NoError(t, err)

	assert.Equal(t, "", render(t, r, FormatText))
	assert.Equal(t, "", render(t, r, FormatTable))
}

func TestBuildErrors(t *testing.T) {
	c := twoNodeCluster(t)

	_, err := Build(c, Options{List: &cluster.ListOptions{TopN: -1}})
	assert.Error(t, err)

	_, err = Build(c, Options{Queues: &QueueOptions{State: cluster.StateAll, Kind: "used"}})
	assert.Error(t, err)
}

func TestTableReport(t *testing.T) {
	r, err := Build(twoNodeCluster(t), Options{
		List:    &cluster.ListOptions{Sort: cluster.SortSize},
		Summary: true,
		Queues:  &QueueOptions{State: cluster.StateAll, Kind: cluster.ResourceMachine},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(render(t, r, FormatTable), "\n"), "\n")
	require.Len(t, lines, 16)

	assert.Equal(t, []string{"NAME", "STATE", "CLASS", "QUEUES", "LOAD", "CORES", "MEM(GB)", "GPUS", "MODEL"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"node-a", "online", "cpu", "batch", "0.25", "12/16", "48/64", "0/0", "igpu"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"node-b", "offline", "gpu", "gpu", "0.00", "8/8", "32/32", "2/2", "a100"}, strings.Fields(lines[2]))
	assert.Empty(t, strings.TrimSpace(lines[3]))
	assert.Equal(t, []string{"CLUSTER", "hilbert", "AT", "2023-11-14T22:13:20"}, strings.Fields(lines[4]))
	assert.Equal(t, []string{"nodes", "2", "1", "50.0"}, strings.Fields(lines[6]))
	assert.Equal(t, []string{"gpu-boards", "2", "0", "0.0"}, strings.Fields(lines[11]))
	assert.Empty(t, strings.TrimSpace(lines[12]))
	assert.Equal(t, []string{"batch", "1", "16/16/16/16", "64/64/64/64", "0/0/0/0"}, strings.Fields(lines[14]))
	assert.Equal(t, []string{"gpu", "1", "8/8/8/8", "32/32/32/32", "2/2/2/2"}, strings.Fields(lines[15]))
}

func TestStructuredReport(t *testing.T) {
	r, err := Build(twoNodeCluster(t), Options{
		List:    &cluster.ListOptions{Sort: cluster.SortName, Priority: node.PriorityMem},
		Summary: true,
	})
	require.NoError(t, err)

	r.Warnings = []diagnostics.Warning{{Kind: diagnostics.AmbiguousState, Subject: "node-c", Message: "invalid node state: free,down"}}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(format.String(), func(t *testing.T) {
			out := render(t, r, format)

			data := []byte(out)
			if format == FormatYAML {
				data, err = yaml.YAMLToJSON(data)
				require.NoError(t, err)
			}

			var got struct {
				Cluster string `json:"cluster"`
				Nodes   []struct {
					Name    string         `json:"name"`
					State   string         `json:"state"`
					Load    float64        `json:"load_estimate"`
					Machine map[string]any `json:"machine"`
				} `json:"nodes"`
				Summary struct {
					Timestamp string         `json:"timestamp"`
					Nodes     map[string]any `json:"nodes"`
				} `json:"summary"`
				Queues   any                   `json:"queue_resources"`
				Warnings []diagnostics.Warning `json:"warnings"`
			}
			require.NoError(t, json.Unmarshal(data, &got))

			assert.Equal(t, "hilbert", got.Cluster)
			require.Len(t, got.Nodes, 2)
			assert.Equal(t, "node-a", got.Nodes[0].Name)
			assert.Equal(t, "online", got.Nodes[0].State)
			assert.Equal(t, 0.25, got.Nodes[0].Load)
			assert.Equal(t, "a100", got.Nodes[1].Machine["gpu_model"])
			assert.Equal(t, "2023-11-14T22:13:20Z", got.Summary.Timestamp)
			assert.Equal(t, 50.0, got.Summary.Nodes["online_percent"])
			assert.Nil(t, got.Queues)
			assert.Equal(t, r.Warnings, got.Warnings)
		})
	}
}

func TestFormat(t *testing.T) {
	var f Format

	require.NoError(t, f.Set("YAML"))
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, "format", f.Type())
	assert.Error(t, f.Set("xml"))

	_, err := NewPrinter(&bytes.Buffer{}, "csv")
	assert.Error(t, err)

	p, err := NewPrinter(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, FormatText, p.format)
}
