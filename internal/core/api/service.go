// Package api provides the gRPC decision service for displayrules.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/displayrules/internal/core/config"
	"github.com/solatis/displayrules/internal/core/log"
	"github.com/solatis/displayrules/internal/rules"
	"github.com/solatis/displayrules/internal/site"
	"github.com/solatis/displayrules/internal/types"
)

// DisplayService implements DisplayServer.
// Thin orchestration layer over the site catalog and the rules evaluator.
type DisplayService struct {
	catalog site.Catalog
	cfg     *config.Config
	logger  *slog.Logger
}

var _ DisplayServer = (*DisplayService)(nil)

// NewDisplayService creates service instance with dependencies.
func NewDisplayService(catalog site.Catalog, cfg *config.Config, logger *slog.Logger) (*DisplayService, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &DisplayService{
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Evaluate decides whether the requested item is shown on the requested page.
//
// Malformed documents and queries are INVALID_ARGUMENT. Requests that
// cannot be evaluated (empty, misaligned or oversized rule sets, invalid
// item ids) are not errors: the decision fails closed with show=false and a
// reason, and the catalog is not consulted.
func (s *DisplayService) Evaluate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.cfg.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.RequestTimeout)
		defer cancel()
	}

	req, err := decodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	query, err := req.Query.Site()
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid query: %v", err))
	}

	decision := Decision{
		DecisionID:   types.NewDecisionID(),
		ItemID:       req.ItemID,
		MatchedIndex: -1,
	}
	logger := log.FromContext(ctx, s.logger).With(
		"decision_id", string(decision.DecisionID),
		"item_id", int64(req.ItemID),
		"view", query.View.String(),
	)

	set, err := req.RuleSet()
	if err == nil && !req.ItemID.Valid() {
		err = fmt.Errorf("%w: %d", types.ErrInvalidItemID, int64(req.ItemID))
	}
	if err == nil && len(set) > s.cfg.Server.MaxRules {
		err = fmt.Errorf("%w: %d > %d", types.ErrTooManyRules, len(set), s.cfg.Server.MaxRules)
	}
	if err != nil {
		decision.Reason = err.Error()
		logger.Info("decision", "show", false, "reason", decision.Reason)
		return respond(decision)
	}

	page, err := site.Load(ctx, s.catalog, query)
	if err != nil {
		logger.Warn("failed to load page context", "error", err)
		return nil, statusFromError(err)
	}

	result := rules.NewEvaluator(page, rules.WithLogger(logger)).Match(req.ItemID, set)
	decision.Show = result.Matched
	decision.MatchedIndex = result.Index
	decision.Kind = result.Token

	logger.Info("decision", "show", decision.Show, "matched_index", decision.MatchedIndex, "kind", decision.Kind)
	return respond(decision)
}

func respond(d Decision) (*structpb.Struct, error) {
	out, err := d.Struct()
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode decision: %v", err))
	}
	return out, nil
}
