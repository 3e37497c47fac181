package ahnentafel

import (
	"context"
	"errors"
	"fmt"

	"github.com/zefrenchwan/lineage.git/graphs"
	"github.com/zefrenchwan/lineage.git/people"
	"go.uber.org/zap"
)

// ErrUnknownPerson is returned when loader does not find the root
var ErrUnknownPerson = errors.New("unknown person")

// Load builds a graph from rootId and its ancestors, up to depth generations.
// Graph is new, so that concurrent loads never share a writer.
func Load(ctx context.Context, loader people.Loader, rootId int, depth int, maxGenerations int, logger *zap.SugaredLogger) (*Index, *graphs.Graph, error) {
	if loader == nil {
		return nil, nil, errors.New("nil loader")
	}

	records, errLoad := loader.LoadProfiles(ctx, []int{rootId})
	if errLoad != nil {
		return nil, nil, errLoad
	} else if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownPerson, rootId)
	}

	graph := graphs.NewGraph(fmt.Sprintf("ancestors of %d", rootId), logger)
	root, errRoot := graph.Construct(records[0])
	if errRoot != nil {
		return nil, nil, errRoot
	}

	index := NewIndex(graph)
	if maxGenerations > 0 {
		index.MaxGenerations = maxGenerations
	}

	if err := index.Rebuild(root); err != nil {
		return nil, nil, err
	} else if err := index.ExpandTo(ctx, loader, depth); err != nil {
		return nil, nil, err
	}

	return index, graph, nil
}
