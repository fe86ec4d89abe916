package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testSection(title string, parent primitive.ObjectID, order int32) Section {
	return Section{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Parent:       parent,
		DisplayOrder: order,
	}
}

func TestBuildSectionsTree(t *testing.T) {

	vehicles := testSection("Vehicles", primitive.NilObjectID, 1)
	electronics := testSection("Electronics", primitive.NilObjectID, 2)
	bikes := testSection("Bikes", vehicles.ID, 1)
	cars := testSection("Cars", vehicles.ID, 2)

	// input deliberately out of order
	tree := BuildSectionsTree([]Section{cars, electronics, bikes, vehicles})

	require.Len(t, tree, 2)
	assert.Equal(t, "Vehicles", tree[0].Title)
	assert.Equal(t, "Electronics", tree[1].Title)

	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Bikes", tree[0].Children[0].Title)
	assert.Equal(t, "Cars", tree[0].Children[1].Title)
	assert.Empty(t, tree[1].Children)
}

func TestBuildSectionsTreeDropsOrphans(t *testing.T) {

	root := testSection("Root", primitive.NilObjectID, 1)
	orphan := testSection("Orphan", primitive.NewObjectID(), 2) // parent not in input

	tree := BuildSectionsTree([]Section{root, orphan})

	require.Len(t, tree, 1)
	assert.Equal(t, "Root", tree[0].Title)
	assert.Empty(t, tree[0].Children)
}

func TestBuildSectionsTreeAdminLinks(t *testing.T) {

	target := testSection("Accessories", primitive.NilObjectID, 2)
	host := testSection("Bikes", primitive.NilObjectID, 1)
	host.Links = []primitive.ObjectID{target.ID, primitive.NewObjectID()} // second link dangles

	sections := []Section{host, target}

	// the public tree ignores links entirely
	public := BuildSectionsTree(sections)
	require.Len(t, public, 2)
	assert.Empty(t, public[0].Children)

	// the admin tree shows the linked placement and keeps the primary one
	admin := BuildSectionsTreeAdmin(sections)
	require.Len(t, admin, 2)
	require.Len(t, admin[0].Children, 1)
	assert.Equal(t, "Accessories", admin[0].Children[0].Title)
	assert.True(t, admin[0].Children[0].IsLinked)
	assert.Equal(t, "Accessories", admin[1].Title)
	assert.False(t, admin[1].IsLinked)
}

// flatten(build(x)) must yield the input set again (linked entries excluded)
func TestFlattenSectionsTreeRoundtrip(t *testing.T) {

	root := testSection("Root", primitive.NilObjectID, 1)
	childA := testSection("A", root.ID, 1)
	childB := testSection("B", root.ID, 2)
	grandchild := testSection("A1", childA.ID, 1)
	root.Links = []primitive.ObjectID{childB.ID}

	sections := []Section{root, childA, childB, grandchild}

	flat := FlattenSectionsTree(BuildSectionsTreeAdmin(sections))

	require.Len(t, flat, len(sections))

	seen := make(map[primitive.ObjectID]bool)
	for _, section := range flat {
		seen[section.ID] = true
	}
	for _, section := range sections {
		assert.True(t, seen[section.ID], section.Title)
	}
}
