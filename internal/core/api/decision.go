package api

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/displayrules/internal/core/input"
	"github.com/solatis/displayrules/internal/types"
)

// Decision is the response document of DisplayService/Evaluate.
type Decision struct {
	DecisionID   types.DecisionID
	ItemID       types.ItemID
	Show         bool
	MatchedIndex int    // -1 when nothing matched
	Kind         string // raw token of the matching descriptor
	Reason       string // why the rule set was rejected, if it was
}

// Struct renders d as a response message.
func (d Decision) Struct() (*structpb.Struct, error) {
	fields := map[string]any{
		"decision_id":   string(d.DecisionID),
		"item_id":       int64(d.ItemID),
		"show":          d.Show,
		"matched_index": d.MatchedIndex,
	}
	if d.Kind != "" {
		fields["kind"] = d.Kind
	}
	if d.Reason != "" {
		fields["reason"] = d.Reason
	}
	return structpb.NewStruct(fields)
}

// DecisionFromStruct parses a response message.
func DecisionFromStruct(s *structpb.Struct) (Decision, error) {
	fields := s.GetFields()
	d := Decision{
		DecisionID:   types.DecisionID(fields["decision_id"].GetStringValue()),
		ItemID:       types.ItemID(fields["item_id"].GetNumberValue()),
		Show:         fields["show"].GetBoolValue(),
		MatchedIndex: int(fields["matched_index"].GetNumberValue()),
		Kind:         fields["kind"].GetStringValue(),
		Reason:       fields["reason"].GetStringValue(),
	}
	if _, ok := fields["show"]; !ok {
		return Decision{}, fmt.Errorf("decision has no show field")
	}
	return d, nil
}

// RequestStruct renders a request document as a request message.
func RequestStruct(req *input.Request) (*structpb.Struct, error) {
	fields := map[string]any{
		"item_id": int64(req.ItemID),
		"query":   queryFields(req.Query),
	}
	if req.Conditions != nil {
		fields["conditions"] = map[string]any{
			"show":      toAnySlice(req.Conditions.Show),
			"operator":  req.Conditions.Operator,
			"ids":       req.Conditions.IDs,
			"page_type": toAnySlice(req.Conditions.PageType),
		}
	}
	if len(req.Rules) > 0 {
		list := make([]any, 0, len(req.Rules))
		for _, r := range req.Rules {
			list = append(list, map[string]any{
				"kind":      r.Kind,
				"operator":  r.Operator,
				"ids":       r.TargetIDs,
				"page_type": r.PageType,
			})
		}
		fields["rules"] = list
	}
	return structpb.NewStruct(fields)
}

// decodeRequest converts a request message to a request document.
func decodeRequest(in *structpb.Struct) (*input.Request, error) {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return input.DecodeRequest(raw)
}

func queryFields(q input.Query) map[string]any {
	fields := map[string]any{"view": q.View}
	if q.PostType != "" {
		fields["post_type"] = q.PostType
	}
	if q.ObjectID != 0 {
		fields["object_id"] = int64(q.ObjectID)
	}
	if q.Slug != "" {
		fields["slug"] = q.Slug
	}
	if q.Taxonomy != "" {
		fields["taxonomy"] = q.Taxonomy
	}
	if q.FrontPage {
		fields["front_page"] = true
	}
	return fields
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
