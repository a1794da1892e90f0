package runner

// FormState is a snapshot of the processing form taken when a run is triggered.
type FormState struct {
	SourcePath string
	Confidence float64
	Tracking   bool
	ViewImages bool
}

// Validate only rejects an empty path; anything else is handed to the detector as typed.
func (f FormState) Validate() error {
	if f.SourcePath == "" {
		return ErrNoSource
	}
	return nil
}
