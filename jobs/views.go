package jobs

// FlushViews moves the batched view counts from redis into the item
// documents, and expires stale entries of the request registry
func (r *Runner) FlushViews() {
	r.env.ViewCounter.Flush()
	r.env.Requests.Flush()
}
