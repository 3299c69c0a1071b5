package stab

// JobStatus represents the lifecycle state of a submitted sampling job
type JobStatus string

const (
	// JobCompleted is the only state a valid handle can report: submission
	// is synchronous, so by the time a handle exists its results are cached.
	JobCompleted JobStatus = "completed"
)

// SamplerError is the error type returned by the stabilizer sampling backend
type SamplerError struct {
	Message string
}

func (e *SamplerError) Error() string {
	return e.Message
}

var (
	ErrNonCliffordAngle       = &SamplerError{"rotation angle is not an integer multiple of a quarter turn"}
	ErrUnsupportedGate        = &SamplerError{"operation has no stabilizer primitive"}
	ErrMeasurementOverwritten = &SamplerError{"measurement overwrites a bit that already holds a result"}
	ErrShotCountMismatch      = &SamplerError{"number of shot counts does not match number of circuits"}
	ErrInvalidShotCount       = &SamplerError{"shot count must be at least 1"}
	ErrUnmappedOutput         = &SamplerError{"declared output bit was never measured"}
	ErrUnknownHandle          = &SamplerError{"no results are cached for this handle"}
	ErrArityMismatch          = &SamplerError{"operand count does not match the operation signature"}
)
