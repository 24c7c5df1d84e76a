package service

// BatchItem is the outcome of one entry of a batch operation.
type BatchItem struct {
	Index     int    // position in the input; CSV rows count from 1 after the header
	Input     string // the email or row as supplied
	AccountID string // set on success
	Err       error
	Warning   error // non-fatal, e.g. the invitation could not be delivered
}

func (i BatchItem) OK() bool { return i.Err == nil }

// BatchResult itemises a batch in input order.
type BatchResult struct {
	Items     []BatchItem
	Succeeded int
	Failed    int
}

func (r *BatchResult) add(item BatchItem) {
	r.Items = append(r.Items, item)
	if item.Err != nil {
		r.Failed++
		return
	}
	r.Succeeded++
}
