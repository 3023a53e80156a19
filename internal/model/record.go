package model

// Record is one radiology report awaiting classification.
type Record struct {
	ID   string
	Text string
}

// Example is a labeled report used as a few-shot demonstration.
type Example struct {
	Text   string
	Labels Labels
}
