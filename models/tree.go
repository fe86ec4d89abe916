package models

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SectionNode is one entry of the nested taxonomy sent to clients.
// A linked entry is a secondary placement of a section that also appears
// in its primary position elsewhere in the tree.
type SectionNode struct {
	Section
	IsLinked bool           `json:"isLinked,omitempty"`
	Children []*SectionNode `json:"children,omitempty"`
}

// BuildSectionsTree turns the flat section list into a forest rooted at the
// sections without a parent. Children keep their displayOrder ordering.
// A section whose parent id does not exist in the input simply does not
// appear anywhere - dangling pointers are dropped, not reported.
func BuildSectionsTree(sections []Section) []*SectionNode {
	return buildTree(sections, false)
}

// BuildSectionsTreeAdmin additionally attaches every linked section as an
// extra child entry flagged isLinked, without removing it from its primary
// position (the admin UI shows both placements).
func BuildSectionsTreeAdmin(sections []Section) []*SectionNode {
	return buildTree(sections, true)
}

func buildTree(sections []Section, withLinks bool) []*SectionNode {

	// stable sibling order; the DB already sorts, but the builder must not
	// rely on its callers
	ordered := make([]Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	byID := make(map[primitive.ObjectID]*Section, len(ordered))
	byParent := make(map[primitive.ObjectID][]*Section)

	for i := range ordered {
		section := &ordered[i]
		byID[section.ID] = section
		// an absent parent decodes to the nil id, so real refs and missing
		// refs group under the same key
		byParent[section.Parent] = append(byParent[section.Parent], section)
	}

	var attach func(parent primitive.ObjectID) []*SectionNode
	attach = func(parent primitive.ObjectID) []*SectionNode {
		var nodes []*SectionNode
		for _, section := range byParent[parent] {
			node := &SectionNode{Section: *section}
			node.Children = attach(section.ID)

			if withLinks {
				for _, linkedID := range section.Links {
					linked, ok := byID[linkedID]
					if !ok {
						continue // dangling link
					}
					node.Children = append(node.Children, &SectionNode{
						Section:  *linked,
						IsLinked: true,
					})
				}
			}

			nodes = append(nodes, node)
		}
		return nodes
	}

	return attach(primitive.NilObjectID)
}

// FlattenSectionsTree is the inverse of BuildSectionsTree: it lists every
// non-linked entry of a forest exactly once (depth-first, children after
// their parent)
func FlattenSectionsTree(nodes []*SectionNode) []Section {
	var sections []Section

	var walk func(nodes []*SectionNode)
	walk = func(nodes []*SectionNode) {
		for _, node := range nodes {
			if node.IsLinked {
				continue
			}
			sections = append(sections, node.Section)
			walk(node.Children)
		}
	}
	walk(nodes)

	return sections
}
