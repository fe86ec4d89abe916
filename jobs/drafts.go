package jobs

import (
	"fmt"
	"market-api/helpers"
	"time"
)

// PurgeDrafts removes listings-in-progress nobody touched for the
// configured number of days
func (r *Runner) PurgeDrafts() {

	cnt, err := r.env.DraftModel.PurgeDrafts(time.Now())
	if err != nil {
		fmt.Println(helpers.WrapError(err, helpers.FuncName()))
		return
	}

	if cnt > 0 {
		fmt.Printf("%v: %v stale draft(s) purged.\n", time.Now().Format(time.RFC3339), cnt)
	}
}
