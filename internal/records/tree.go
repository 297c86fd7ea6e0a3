package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-unicms/internal/schema"
)

// attachTrees attaches nested relations below roots. Roots of a
// self-hierarchy each track their own visited set, so a root that also sits
// inside another root's subtree still shows up there.
func (s *service) attachTrees(ctx context.Context, def schema.Definition, roots []*Node) error {
	if !def.IsHierarchy() {
		visited := make(map[uuid.UUID]bool, len(roots))
		for _, root := range roots {
			visited[root.Record.ID] = true
		}
		return s.attach(ctx, def, roots, visited, 0)
	}
	for _, root := range roots {
		visited := map[uuid.UUID]bool{root.Record.ID: true}
		if err := s.attach(ctx, def, []*Node{root}, visited, 0); err != nil {
			return err
		}
	}
	return nil
}

// attach loads the nested relations of level, one query per relation and
// level. visited holds the records already placed in the current tree; a
// record seen twice means the stored data contains a cycle and is skipped.
func (s *service) attach(ctx context.Context, def schema.Definition, level []*Node, visited map[uuid.UUID]bool, depth int) error {
	relations := def.NestedRelations()
	if len(relations) == 0 || len(level) == 0 {
		return nil
	}
	for _, node := range level {
		for _, rel := range relations {
			node.Children[rel.Name] = []*Node{}
		}
	}
	if depth >= s.maxDepth {
		s.logger.Warn("records.tree.depth_limit", "entity", def.Name, "depth", depth)
		return nil
	}

	owners := make(map[uuid.UUID]*Node, len(level))
	ids := make([]uuid.UUID, 0, len(level))
	for _, node := range level {
		owners[node.Record.ID] = node
		ids = append(ids, node.Record.ID)
	}

	for _, rel := range relations {
		childDef, ok := s.registry.Lookup(rel.Entity)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntity, rel.Entity)
		}
		children, err := s.store.Find(ctx, Query{EntityType: childDef.Name, ParentIDs: ids, ActiveOnly: true})
		if err != nil {
			return err
		}
		SortRecords(childDef, children)

		next := make([]*Node, 0, len(children))
		for _, child := range children {
			if child.ParentID == nil || !child.IsActive {
				continue
			}
			owner, ok := owners[*child.ParentID]
			if !ok {
				continue
			}
			if visited[child.ID] {
				s.logger.Warn("records.tree.cycle", "entity", childDef.Name, "id", child.ID)
				continue
			}
			visited[child.ID] = true
			node := newNode(child)
			owner.Children[rel.Name] = append(owner.Children[rel.Name], node)
			next = append(next, node)
		}
		if err := s.attach(ctx, childDef, next, visited, depth+1); err != nil {
			return err
		}
	}
	return nil
}
