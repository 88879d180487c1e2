package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/neutree-ai/cluster-info/internal/cluster"
	"github.com/neutree-ai/cluster-info/internal/stats"
)

//go:embed templates/report.tmpl
var reportTemplate string

var textTemplate = template.Must(template.New("report").Funcs(sprig.TxtFuncMap()).Parse(reportTemplate))

// Format is an output format.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formats = []Format{FormatText, FormatTable, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}

	return "", errors.Errorf("unsupported output format: %s", s)
}

func (f Format) String() string { return string(f) }

func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err == nil {
		*f = v
	}

	return err
}

func (f *Format) Type() string { return "format" }

// Printer writes reports in one format.
type Printer struct {
	out    io.Writer
	format Format
}

func NewPrinter(out io.Writer, format Format) (*Printer, error) {
	if format == "" {
		format = FormatText
	}

	f, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	return &Printer{out: out, format: f}, nil
}

func (p *Printer) Print(r *Report) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(r)
	case FormatYAML:
		return p.printYAML(r)
	case FormatTable:
		return p.printTable(r)
	default:
		return p.printText(r)
	}
}

func (p *Printer) printText(r *Report) error {
	if err := textTemplate.Execute(p.out, r); err != nil {
		return errors.Wrap(err, "failed to render report")
	}

	return nil
}

func (p *Printer) printJSON(r *Report) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

func (p *Printer) printYAML(r *Report) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "failed to marshal YAML")
	}

	_, err = p.out.Write(out)

	return err
}

// printTable writes one table per section, separated by blank lines.
func (p *Printer) printTable(r *Report) error {
	w := tabwriter.NewWriter(p.out, 0, 4, 2, ' ', 0)
	sections := 0

	section := func() {
		if sections > 0 {
			fmt.Fprintln(w)
		}

		sections++
	}

	if r.Nodes != nil {
		section()
		fmt.Fprintln(w, "NAME\tSTATE\tCLASS\tQUEUES\tLOAD\tCORES\tMEM(GB)\tGPUS\tMODEL")

		for _, n := range r.Nodes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d/%d\t%d/%d\t%d/%d\t%s\n",
				n.Name, n.State, n.Class, orNone(strings.Join(n.Queues, ",")), n.Load,
				n.Remaining.Cores(), n.Machine.Cores(),
				n.Remaining.Memory(), n.Machine.Memory(),
				n.Remaining.Boards(), n.Machine.Boards(),
				orNone(n.Machine.Model()))
		}
	}

	if s := r.Summary; s != nil {
		section()
		fmt.Fprintf(w, "CLUSTER\t%s\tAT\t%s\n", s.Name, s.Timestamp.Format(cluster.TimeLayout))
		fmt.Fprintln(w, "RESOURCE\tTOTAL\tONLINE\tPERCENT")

		for _, row := range []struct {
			name  string
			count cluster.Count
		}{
			{"nodes", s.Nodes},
			{"cpu-nodes", s.CPUNodes},
			{"gpu-nodes", s.GPUNodes},
			{"cpu-cores", s.Cores},
			{"memory-gb", s.Memory},
			{"gpu-boards", s.Boards},
		} {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\n", row.name, row.count.Total, row.count.Online, row.count.Percent)
		}
	}

	if q := r.Queues; q != nil {
		section()
		fmt.Fprintf(w, "QUEUE\tNODES\tCPU[cores]\tMEM[gb]\tGPU[boards]\t(%s, min/median/mode/max)\n", q.Kind)

		for _, qs := range q.Queues {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n", qs.Queue, qs.Nodes, statsCell(qs.Cores), statsCell(qs.Memory), statsCell(qs.Boards))
		}
	}

	return w.Flush()
}

func statsCell(s stats.Set) string {
	return fmt.Sprintf("%d/%d/%d/%d", s.Min, s.Median, s.Mode, s.Max)
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}

	return s
}
