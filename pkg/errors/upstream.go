package errors

import (
	stdErrors "errors"
	"fmt"
)

// Upstream carries the response details of a failed upstream REST call so
// they survive wrapping and land in the error dump.
type Upstream struct {
	Source string
	Status int
	Body   string
}

func (u *Upstream) Error() string {
	return fmt.Sprintf("%s returned %d", u.Source, u.Status)
}

// CodeForUpstreamStatus maps an upstream HTTP status to our error taxonomy.
// Anything unexpected is a dependency failure: the upstream owns its own
// validation, we only relay the categories a caller can act on.
func CodeForUpstreamStatus(status int) Code {
	switch status {
	case 400:
		return CodeValidation
	case 404:
		return CodeNotFound
	case 409:
		return CodeConflict
	case 422:
		return CodeStateConflict
	default:
		return CodeDependency
	}
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamSource string `json:"upstream_source,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
	UpstreamBody   string `json:"upstream_body,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var up *Upstream
	if stdErrors.As(err, &up) {
		d.UpstreamSource = up.Source
		d.UpstreamStatus = up.Status
		d.UpstreamBody = up.Body
	}

	return d
}
