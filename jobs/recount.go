package jobs

import (
	"fmt"
	"market-api/apperror"
	"market-api/helpers"
	"market-api/models"
	"time"
)

// RecountSections rebuilds every section's cached counters in a full sweep.
// Leaves are recounted before their parents (deepest first), so each parent
// already sums fresh child caches when its turn comes.
func (r *Runner) RecountSections() {

	sections, err := r.env.SectionModel.ListSections()
	if err != nil {
		if err != apperror.ErrNoData {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		}
		return
	}

	// walk the tree depth-first and emit children before their parent
	tree := models.BuildSectionsTree(sections)

	var order []models.Section
	var walk func(nodes []*models.SectionNode)
	walk = func(nodes []*models.SectionNode) {
		for _, node := range nodes {
			walk(node.Children)
			order = append(order, node.Section) // children first
		}
	}
	walk(tree)

	cnt := 0
	for _, section := range order {
		if err := r.env.SectionModel.RecountSection(section.ID); err != nil {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
			continue
		}
		cnt++
	}

	fmt.Printf("%v: %v section cache(s) recounted.\n", time.Now().Format(time.RFC3339), cnt)
}

// RecountUsers rebuilds the per-user item counters for everyone who owns
// at least one live or archived item
func (r *Runner) RecountUsers() {

	owners, err := r.env.ItemModel.ItemOwners()
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	cnt := 0
	for _, owner := range owners {
		if err := r.env.CounterModel.RecountUser(owner); err != nil {
			fmt.Println(helpers.WrapError(err, helpers.FuncName()))
			continue
		}
		cnt++
	}

	fmt.Printf("%v: counters of %v user(s) recounted.\n", time.Now().Format(time.RFC3339), cnt)
}
