package cache

// Keyer derives cache keys. Implementations must be deterministic.
type Keyer interface {
	// AnalysisKey addresses the metrics computed for a layout.
	AnalysisKey(layoutHash string) string

	// ReportKey addresses one rendered artifact of a layout.
	ReportKey(layoutHash string, opts ReportKeyOpts) string
}

// ReportKeyOpts holds every render option that changes artifact bytes.
type ReportKeyOpts struct {
	Format    string `json:"format"`
	Title     string `json:"title,omitempty"`
	PageSize  string `json:"page_size,omitempty"`
	Precision int    `json:"precision"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(layoutHash string) string {
	return "analysis:" + layoutHash
}

// ReportKey implements Keyer.
func (DefaultKeyer) ReportKey(layoutHash string, opts ReportKeyOpts) string {
	return hashKey("report", layoutHash, opts)
}
