package verify

import "strings"

// CanonicalWarning is the U.S. alcohol beverage health warning statement
// (27 CFR 16.21) as it must appear on the label.
const CanonicalWarning = "GOVERNMENT WARNING: (1) According to the Surgeon General, women should not drink alcoholic beverages during pregnancy because of the risk of birth defects. (2) Consumption of alcoholic beverages impairs your ability to drive a car or operate machinery, and may cause health problems."

// warningHeader is matched against normalized label text.
const warningHeader = "government warning"

const (
	msgWarningMissing  = "Government warning text is missing from the label."
	msgWarningMismatch = "Government warning text is present, but it does not match the legal government warning statement."
	msgWarningMatched  = "Government warning text is present and matches the legal statement."
)

// WarningPlaceholder is reported as the declared value of the warning check;
// the form never carries the warning text itself.
const WarningPlaceholder = "Full Legal Text Required"

// checkWarning runs the two-stage warning test on already normalized label
// text. A missing header is reported separately from a garbled body.
func checkWarning(normalizedLabel, normalizedWarning string) (bool, string) {
	if !strings.Contains(normalizedLabel, warningHeader) {
		return false, msgWarningMissing
	}
	if !strings.Contains(normalizedLabel, normalizedWarning) {
		return false, msgWarningMismatch
	}
	return true, msgWarningMatched
}
