//go:build !scn_norecover

package numeric

const hostRecoverable = true
