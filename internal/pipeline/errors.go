package pipeline

// Stage names used in errors and logs.
const (
	StageValidate     = "validate"
	StageIllumination = "illumination"
	StageBinarize     = "binarize"
	StageDeslant      = "deslant"
	StageNormalize    = "normalize"
	StageDecode       = "decode"
)

// StageError reports the stage a line failed in. The underlying error is
// kept for errors.Is and errors.As.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
