package verify

import "fmt"

// Field names, in the order checks are reported.
const (
	FieldBrandName      = "Brand Name"
	FieldProductClass   = "Product Class/Type"
	FieldAlcoholContent = "Alcohol Content (ABV)"
	FieldNetContents    = "Net Contents"
	FieldWarning        = "Government Warning"
)

// Status is the overall verdict of a verification.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// DeclaredFields holds what the submitter claims is printed on the label.
// Any field may be empty.
type DeclaredFields struct {
	BrandName      string `json:"brand_name"`
	ProductClass   string `json:"product_class"`
	AlcoholContent string `json:"alcohol_content"`
	NetContents    string `json:"net_contents"`
}

// FieldCheckResult is the outcome of a single field check.
type FieldCheckResult struct {
	// Field is one of the Field* constants.
	Field string `json:"field"`

	// DeclaredValue echoes the whitespace-collapsed form value, or
	// WarningPlaceholder for the warning check.
	DeclaredValue string `json:"form_value"`

	Matched bool   `json:"match"`
	Message string `json:"message"`
}

// Result is the aggregate verdict for one label.
type Result struct {
	OverallStatus Status             `json:"overall_status"`
	Checks        []FieldCheckResult `json:"checks"`

	// Error is set by callers when OCR failed before verification could run.
	Error *string `json:"error"`

	// OCRText is the label text exactly as it was verified.
	OCRText string `json:"ocr_text"`
}

// Passed reports whether every check matched.
func (r *Result) Passed() bool {
	return r.OverallStatus == StatusSuccess
}

// Failed builds the result returned when no label text could be obtained.
// It carries the error message and no checks.
func Failed(message string) *Result {
	return &Result{
		OverallStatus: StatusFailure,
		Checks:        []FieldCheckResult{},
		Error:         &message,
	}
}

type checkKind int

const (
	kindText checkKind = iota
	kindABV
	kindWarning
)

// fieldCheck describes one row of the report: which matcher to run and how
// to word the message.
type fieldCheck struct {
	field string
	noun  string
	kind  checkKind
	value string
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithWarningText replaces the legal statement the warning check compares
// against. Mostly useful for tests and for jurisdictions with a different
// statement.
func WithWarningText(text string) Option {
	return func(v *Verifier) {
		v.warningText = text
	}
}

// Verifier compares declared fields against label text.
type Verifier struct {
	warningText       string
	normalizedWarning string
}

// New returns a Verifier using CanonicalWarning unless overridden.
func New(opts ...Option) *Verifier {
	v := &Verifier{warningText: CanonicalWarning}
	for _, opt := range opts {
		opt(v)
	}
	v.normalizedWarning = Normalize(v.warningText)
	return v
}

// WarningText returns the legal statement this Verifier requires.
func (v *Verifier) WarningText() string {
	return v.warningText
}

// Verify runs all five checks against labelText and aggregates them. It never
// fails: empty values and empty label text simply produce non-matches.
func (v *Verifier) Verify(declared DeclaredFields, labelText string) *Result {
	checks := []fieldCheck{
		{field: FieldBrandName, noun: "Brand name", kind: kindText, value: CollapseWhitespace(declared.BrandName)},
		{field: FieldProductClass, noun: "Product class", kind: kindText, value: CollapseWhitespace(declared.ProductClass)},
		{field: FieldAlcoholContent, noun: "Alcohol content", kind: kindABV, value: CollapseWhitespace(declared.AlcoholContent)},
		{field: FieldNetContents, noun: "Net contents", kind: kindText, value: CollapseWhitespace(declared.NetContents)},
		{field: FieldWarning, kind: kindWarning, value: WarningPlaceholder},
	}

	normalizedLabel := Normalize(labelText)

	res := &Result{
		OverallStatus: StatusSuccess,
		Checks:        make([]FieldCheckResult, 0, len(checks)),
		OCRText:       labelText,
	}
	for _, c := range checks {
		var matched bool
		var msg string
		switch c.kind {
		case kindText:
			matched = MatchTextField(c.value, labelText)
			msg = fieldMessage(c, matched)
		case kindABV:
			matched = MatchAlcoholContent(c.value, labelText)
			msg = fieldMessage(c, matched)
		case kindWarning:
			matched, msg = checkWarning(normalizedLabel, v.normalizedWarning)
		}

		if !matched {
			res.OverallStatus = StatusFailure
		}
		res.Checks = append(res.Checks, FieldCheckResult{
			Field:         c.field,
			DeclaredValue: c.value,
			Matched:       matched,
			Message:       msg,
		})
	}
	return res
}

func fieldMessage(c fieldCheck, matched bool) string {
	if matched {
		return fmt.Sprintf("%s on label matches form.", c.noun)
	}
	return fmt.Sprintf("%s '%s' not found on label.", c.noun, c.value)
}
