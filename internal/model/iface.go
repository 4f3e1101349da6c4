package model

// DatasetReader is the read side of the app shell used by render surfaces.
type DatasetReader interface {
	// Dataset returns the current dataset, or false when nothing valid is loaded.
	Dataset() (Dataset, bool)
}
