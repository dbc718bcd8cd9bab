package readmecat

// degradedPrefix marks a value that could not be resolved. It is substituted
// into the document so a reader can see which placeholder failed and why.
const degradedPrefix = "N/A: "

// Resolution is the outcome of resolving a single placeholder. Every
// placeholder resolves to exactly one Resolution; a failure degrades to a
// visible sentinel instead of aborting the run.
type Resolution struct {
	value  string
	reason string
	failed bool
}

// Resolved returns a successful resolution carrying the substitution value.
func Resolved(value string) Resolution {
	return Resolution{value: value}
}

// Degraded returns a failed resolution carrying the reason. The reason ends
// up in the rendered document, so keep it short and free of newlines.
func Degraded(reason string) Resolution {
	return Resolution{reason: reason, failed: true}
}

// Failed reports whether the placeholder resolved to a degraded value.
func (r Resolution) Failed() bool {
	return r.failed
}

// Reason returns the failure reason, empty for successful resolutions.
func (r Resolution) Reason() string {
	return r.reason
}

// String returns the text substituted into the document.
func (r Resolution) String() string {
	if r.failed {
		return degradedPrefix + r.reason
	}
	return r.value
}
