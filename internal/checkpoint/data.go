package checkpoint

// State is the on-disk shape of a crawl's resumable progress: every URL
// already admitted (visited, whether or not it was still pending when the
// checkpoint was written), every URL still sitting in the frontier's
// queues, and the content hash of every page written so far.
type State struct {
	Visited       []string `json:"visited"`
	Queue         []string `json:"queue"`
	ContentHashes []string `json:"content_hashes"`
}

func NewState(visited, queue, contentHashes []string) State {
	return State{
		Visited:       visited,
		Queue:         queue,
		ContentHashes: contentHashes,
	}
}
