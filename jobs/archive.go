package jobs

import (
	"fmt"
	"market-api/helpers"
	"market-api/models"
	"time"
)

// ArchiveItems sweeps the live collection for expired listings and moves
// them to the archive: offers past their autoclose timestamp, wishes older
// than the configured age (measured on the id's embedded creation time).
// The move itself upserts first and deletes second, so a crash in between
// is healed by the next run (see models.ItemModel.ArchiveItems).
func (r *Runner) ArchiveItems() {

	now := time.Now()

	candidates, err := r.env.ItemModel.ArchiveCandidates(now, models.WishMaxAge())
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	if len(candidates) == 0 {
		return
	}

	err = r.env.ItemModel.ArchiveItems(candidates, now)
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	fmt.Printf("%v: %v item(s) archived.\n", now.Format(time.RFC3339), len(candidates))
}
