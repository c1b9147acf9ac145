package cmd

import (
	"context"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/displayrules/internal/core/api"
	"github.com/solatis/displayrules/internal/core/db"
	"github.com/solatis/displayrules/internal/core/input"
	"github.com/solatis/displayrules/internal/site"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate REQUEST",
	Short: "Decide whether a display item is shown for one page request",
	Long: `Reads a request document (YAML or JSON) naming the item id, its rule
set (a "rules" list or a legacy "conditions" bag) and the page query, and
prints the decision.

The page context is loaded from --catalog (a snapshot file), from the
catalog database, or the request is sent to a running server with --remote.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("catalog", "", "catalog snapshot file (YAML or JSON)")
	evaluateCmd.Flags().String("remote", "", "address of a displayrules server (host:port)")
	evaluateCmd.Flags().Bool("fail-hidden", false, "exit with an error when the item is hidden")
}

// decisionOutput is the printed form of api.Decision.
type decisionOutput struct {
	DecisionID   string `yaml:"decision_id"`
	ItemID       int64  `yaml:"item_id"`
	Show         bool   `yaml:"show"`
	MatchedIndex int    `yaml:"matched_index"`
	Kind         string `yaml:"kind,omitempty"`
	Reason       string `yaml:"reason,omitempty"`
}

type evaluateFunc func(context.Context, *structpb.Struct) (*structpb.Struct, error)

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := loadSession(cmd)
	if err != nil {
		return err
	}

	req, err := input.LoadRequest(args[0])
	if err != nil {
		return err
	}
	in, err := api.RequestStruct(req)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	eval, closeFn, err := sess.evaluator(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(ctx, sess.cfg.Server.RequestTimeout)
	defer cancel()

	out, err := eval(ctx, in)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}
	decision, err := api.DecisionFromStruct(out)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(decisionOutput{
		DecisionID:   string(decision.DecisionID),
		ItemID:       int64(decision.ItemID),
		Show:         decision.Show,
		MatchedIndex: decision.MatchedIndex,
		Kind:         decision.Kind,
		Reason:       decision.Reason,
	})
	if err != nil {
		return fmt.Errorf("failed to render decision: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}

	if failHidden, _ := cmd.Flags().GetBool("fail-hidden"); failHidden && !decision.Show {
		return fmt.Errorf("item %d is hidden", decision.ItemID)
	}
	return nil
}

// evaluator picks the remote client, the snapshot catalog or the catalog
// database, in that order.
func (s *session) evaluator(ctx context.Context, cmd *cobra.Command) (evaluateFunc, func(), error) {
	noop := func() {}

	if remote, _ := cmd.Flags().GetString("remote"); remote != "" {
		conn, err := grpc.NewClient(remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to %s: %w", remote, err)
		}
		client := api.NewDisplayClient(conn)
		eval := func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
			return client.Evaluate(ctx, in)
		}
		return eval, func() { conn.Close() }, nil
	}

	var (
		catalog site.Catalog
		closeFn = noop
	)
	if path, _ := cmd.Flags().GetString("catalog"); path != "" {
		snap, err := input.LoadSnapshot(path)
		if err != nil {
			return nil, noop, err
		}
		catalog = site.NewMemoryCatalog(snap)
	} else {
		database, err := s.openDB(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("%w; or pass --catalog or --remote", err)
		}
		dbCatalog, err := db.NewCatalog(database, s.logger)
		if err != nil {
			database.Close()
			return nil, noop, fmt.Errorf("failed to load queries: %w", err)
		}
		catalog = dbCatalog
		closeFn = func() { database.Close() }
	}

	service, err := api.NewDisplayService(catalog, s.cfg, s.logger)
	if err != nil {
		closeFn()
		return nil, noop, err
	}
	return service.Evaluate, closeFn, nil
}
