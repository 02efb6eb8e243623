//go:build scn_norecover

package numeric

// Built without recoverable conversion failures; localized reads report
// feature_unavailable.
const hostRecoverable = false
