package inventory

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/neutree-ai/cluster-info/internal/util"
	"github.com/neutree-ai/cluster-info/pkg/command"
)

const (
	DefaultPBSNodesCommand = "pbsnodes"
	DefaultPBSNodesTimeout = 30 * time.Second
)

// DefaultPBSNodesArgs request the full node inventory as JSON.
var DefaultPBSNodesArgs = []string{"-a", "-F", "json"}

var gzipMagic = []byte{0x1f, 0x8b}

// Source produces the raw bytes of an inventory document.
type Source interface {
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// FileSource reads a dumped inventory. Gzip compressed dumps are detected by their
// magic bytes. The path "-" reads from Stdin.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

func (s *FileSource) Read(_ context.Context) ([]byte, error) {
	var r io.Reader

	if s.Path == "-" {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open node inventory")
		}
		defer f.Close()

		r = f
	}

	br := bufio.NewReader(r)

	head, err := br.Peek(len(gzipMagic))
	if err == nil && bytes.Equal(head, gzipMagic) {
		gzr, err := pgzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create gzip reader")
		}
		defer gzr.Close()

		klog.V(4).Infof("reading gzip compressed node inventory from %s", s)

		data, err := io.ReadAll(gzr)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decompress node inventory")
		}

		return data, nil
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read node inventory")
	}

	return data, nil
}

func (s *FileSource) String() string {
	if s.Path == "-" {
		return "<stdin>"
	}

	return s.Path
}

// CommandSource asks the scheduler for the inventory by running pbsnodes.
type CommandSource struct {
	Executor command.Executor
	Command  string
	Args     []string
	Timeout  time.Duration
}

// NewPBSNodesSource returns a CommandSource running `pbsnodes -a -F json`.
func NewPBSNodesSource(executor command.Executor, path string, timeout time.Duration) *CommandSource {
	if path == "" {
		path = DefaultPBSNodesCommand
	}

	if executor == nil {
		executor = &command.OSExecutor{}
	}

	return &CommandSource{
		Executor: executor,
		Command:  path,
		Args:     DefaultPBSNodesArgs,
		Timeout:  timeout,
	}
}

func (s *CommandSource) Read(ctx context.Context) ([]byte, error) {
	klog.V(4).Infof("running %s", s)

	out, err := s.Executor.ExecuteWithTimeout(ctx, s.Timeout, s.Command, s.Args...)
	if err != nil {
		if errors.Is(err, command.ErrNotFound) {
			return nil, errors.Wrapf(err, "need command %q in $PATH or its JSON output passed with --node-info", s.Command)
		}

		return nil, errors.Wrap(err, "failed to query the scheduler")
	}

	return out, nil
}

func (s *CommandSource) String() string {
	return s.Command + " " + strings.Join(s.Args, " ")
}

// LoadOptions tune how a document is loaded.
type LoadOptions struct {
	// Overrides is a JSON merge patch applied to the raw document before decoding.
	// Node order of a patched document is not guaranteed.
	Overrides []byte
}

// Load reads, patches and decodes an inventory document.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Document, error) {
	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}

	if len(opts.Overrides) > 0 {
		klog.V(4).Infof("applying inventory overrides to %s", src)

		data, err = util.MergePatch(data, opts.Overrides)
		if err != nil {
			return nil, errors.Wrap(err, "failed to apply inventory overrides")
		}
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "inventory from %s", src)
	}

	klog.V(4).Infof("loaded %d nodes from %s", len(doc.Nodes), src)

	return doc, nil
}

// ReadOverrides loads a merge patch file; an empty path yields no overrides.
func ReadOverrides(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read inventory overrides")
	}

	return data, nil
}
