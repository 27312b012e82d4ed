package io

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/labforge/pkg/errors"
	"github.com/matzehuels/labforge/pkg/topology"
)

// ReadJSON decodes a topology document from r into a new store.
//
// Decoding failures carry errors.ErrCodeInvalidFormat. A node or link the
// store rejects is returned as a coded error from [errors.FromTopology]
// wrapped with the offending element, and nothing is kept.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*topology.Store, error) {
	snap, err := DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	return load(document{Nodes: snap.Nodes, Links: snap.Links})
}

// DecodeJSON decodes a topology document from r without loading it into a
// store. Links may name nodes the document does not contain, so the result
// can be appended to an existing topology with [Seed].
func DecodeJSON(r io.Reader) (topology.Snapshot, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return topology.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode topology JSON")
	}
	return topology.Snapshot{Nodes: doc.Nodes, Links: doc.Links}, nil
}

// ReadYAML decodes a YAML topology document from r into a new store.
// It applies the same checks as [ReadJSON].
func ReadYAML(r io.Reader) (*topology.Store, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode topology YAML")
	}
	return load(doc)
}

// Seed replays an already-decoded document into s. The session uses it for
// its seed and replace commands so failures name the offending element.
func Seed(s *topology.Store, nodes []topology.Node, links []topology.Link) error {
	if err := s.Seed(nodes, links); err != nil {
		return fmt.Errorf("%s: %w", describe(err), errors.FromTopology(err))
	}
	return nil
}

func load(doc document) (*topology.Store, error) {
	s := topology.New()
	if err := Seed(s, doc.Nodes, doc.Links); err != nil {
		return nil, err
	}
	return s, nil
}

// describe names the element a seed failure is about.
func describe(err error) string {
	var dup *topology.DuplicateNameError
	var unk *topology.UnknownEndpointError
	switch {
	case stderrors.As(err, &dup):
		return fmt.Sprintf("node %q", dup.Name)
	case stderrors.As(err, &unk):
		return fmt.Sprintf("link %s->%s", unk.Source, unk.Target)
	default:
		return "topology"
	}
}

// ImportJSON reads a JSON topology file at path.
func ImportJSON(path string) (*topology.Store, error) {
	return importFile(path, ReadJSON)
}

// ImportYAML reads a YAML topology file at path.
func ImportYAML(path string) (*topology.Store, error) {
	return importFile(path, ReadYAML)
}

// Import reads a topology file, choosing the decoder by extension
// (.json, .yaml, .yml).
func Import(path string) (*topology.Store, error) {
	format, err := errors.TopologyFormat(path)
	if err != nil {
		return nil, err
	}
	if format == errors.FormatYAML {
		return ImportYAML(path)
	}
	return ImportJSON(path)
}

func importFile(path string, read func(io.Reader) (*topology.Store, error)) (*topology.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "topology file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
