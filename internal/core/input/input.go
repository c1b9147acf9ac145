// Package input decodes decision requests and catalog snapshots from YAML
// or JSON documents.
//
// Both the CLI (files on disk) and the gRPC service (JSON rendered from
// structpb) go through the same strict decoder, so a document accepted by
// one is accepted by the other. Unknown fields are rejected.
package input

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/solatis/displayrules/internal/rules"
	"github.com/solatis/displayrules/internal/site"
	"github.com/solatis/displayrules/internal/types"
)

var (
	// ErrAmbiguousRules is returned when a request carries both a rule list
	// and a legacy condition bag.
	ErrAmbiguousRules = errors.New("request sets both rules and conditions")

	// ErrEmptyDocument is returned for documents with no content.
	ErrEmptyDocument = errors.New("empty document")
)

// Request asks whether one display item is shown on one page.
type Request struct {
	ItemID     types.ItemID        `json:"item_id" yaml:"item_id"`
	Rules      types.RuleSet       `json:"rules,omitempty" yaml:"rules,omitempty"`
	Conditions *types.ConditionSet `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Query      Query               `json:"query" yaml:"query"`
}

// Query is the document form of site.Query; View is a view name.
type Query struct {
	View      string       `json:"view" yaml:"view"`
	PostType  string       `json:"post_type,omitempty" yaml:"post_type,omitempty"`
	ObjectID  types.ItemID `json:"object_id,omitempty" yaml:"object_id,omitempty"`
	Slug      string       `json:"slug,omitempty" yaml:"slug,omitempty"`
	Taxonomy  string       `json:"taxonomy,omitempty" yaml:"taxonomy,omitempty"`
	FrontPage bool         `json:"front_page,omitempty" yaml:"front_page,omitempty"`
}

// Site converts q to a validated site.Query.
func (q Query) Site() (site.Query, error) {
	view, err := site.ParseView(q.View)
	if err != nil {
		return site.Query{}, err
	}
	sq := site.Query{
		View:      view,
		PostType:  q.PostType,
		ObjectID:  q.ObjectID,
		Slug:      q.Slug,
		Taxonomy:  q.Taxonomy,
		FrontPage: q.FrontPage,
	}
	if err := sq.Validate(); err != nil {
		return site.Query{}, err
	}
	return sq, nil
}

// RuleSet returns the request's descriptors, converting a legacy condition
// bag when one is given.
func (r *Request) RuleSet() (types.RuleSet, error) {
	if r.Conditions != nil {
		if len(r.Rules) > 0 {
			return nil, ErrAmbiguousRules
		}
		return rules.FromConditionSet(r.Conditions)
	}
	if len(r.Rules) == 0 {
		return nil, types.ErrEmptyRuleSet
	}
	return r.Rules, nil
}

// DecodeRequest decodes a request document.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := decode(data, &req); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &req, nil
}

// LoadRequest reads and decodes a request file.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	req, err := DecodeRequest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

// DecodeSnapshot decodes a catalog snapshot document.
func DecodeSnapshot(data []byte) (site.Snapshot, error) {
	var snap site.Snapshot
	if err := decode(data, &snap); err != nil {
		return site.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot reads and decodes a catalog snapshot file.
func LoadSnapshot(path string) (site.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return site.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return site.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

func decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyDocument
	}
	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.DisallowUnknownField())
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return errors.New(yaml.FormatError(err, false, true))
	}
	return nil
}
