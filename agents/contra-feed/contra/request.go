package contra

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrUnknownMethod  = goerr.New("unknown contra method")
	ErrInvalidRequest = goerr.New("invalid contra request")
	ErrNotFound       = goerr.New("video not found")
)

// Method selects how candidates are scored against the input set.
type Method string

const (
	// MethodDiametric filters by minimum distance and mean angle to every input.
	MethodDiametric Method = "diametric"
	// MethodCentroid ranks every candidate by its angle to the inputs' centroid.
	MethodCentroid Method = "centroid"
)

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodDiametric, MethodCentroid:
		return m, nil
	default:
		return "", goerr.Wrap(ErrUnknownMethod, "cannot parse method", goerr.V("method", s))
	}
}

const (
	MinContraVideos = 1
	MaxContraVideos = 50
	MinSampleSize   = 100
	MaxSampleSize   = 10000
)

// Options are the per-call knobs shared by feeds and single-video analysis.
type Options struct {
	NumContraVideos int
	SampleSize      int
	UseCache        bool
	Method          Method
}

func (o Options) Validate() error {
	if _, err := ParseMethod(string(o.Method)); err != nil {
		return err
	}
	if o.NumContraVideos < MinContraVideos || o.NumContraVideos > MaxContraVideos {
		return goerr.Wrap(ErrInvalidRequest, "num_contra_videos out of range",
			goerr.V("num_contra_videos", o.NumContraVideos),
			goerr.V("min", MinContraVideos),
			goerr.V("max", MaxContraVideos))
	}
	if o.SampleSize < MinSampleSize || o.SampleSize > MaxSampleSize {
		return goerr.Wrap(ErrInvalidRequest, "random_sample_size out of range",
			goerr.V("random_sample_size", o.SampleSize),
			goerr.V("min", MinSampleSize),
			goerr.V("max", MaxSampleSize))
	}
	return nil
}

type Request struct {
	VideoIDs []string
	Options
}

func (r Request) Validate() error {
	if len(r.VideoIDs) == 0 {
		return goerr.Wrap(ErrInvalidRequest, "at least one video id is required")
	}
	return r.Options.Validate()
}
