package domain

import "time"

// LanguageTag names the natural language or dialect all generated text of a
// request must use, e.g. "French" or "Syrian Arabic".
type LanguageTag string

const (
	LanguageArabic LanguageTag = "Arabic"
	// LanguageFallback is used when detection returns nothing usable.
	LanguageFallback LanguageTag = "English"
)

// CandidateProposal is one "<category label>: <code text>" line of the model output.
type CandidateProposal struct {
	CategoryLabel string
	RawCodeText   string
}

// MatchTier tells which prefix length resolved a candidate.
type MatchTier string

const (
	MatchTierExact  MatchTier = "hs6"
	MatchTierFamily MatchTier = "hs4"
)

// CandidateMatch is a deduplicated candidate resolved against the reference table.
type CandidateMatch struct {
	ItemLabel string
	HS6       string
	Row       ReferenceRow
	Tier      MatchTier
}

type MatchResult struct {
	ItemLabel   string    `json:"item"`
	HS6         string    `json:"hs6"`
	MatchedBand string    `json:"band"`
	Description string    `json:"description"`
	Tier        MatchTier `json:"tier"`
}

// LabelSet holds the display labels Item, HS6, 8-Digit and Description.
type LabelSet [4]string

var DefaultLabels = LabelSet{"Item", "HS6", "8-Digit", "Desc"}

func (l LabelSet) Item() string        { return l[0] }
func (l LabelSet) HS6() string         { return l[1] }
func (l LabelSet) Band() string        { return l[2] }
func (l LabelSet) Description() string { return l[3] }

// LanguagePreset carries pre-translated texts that bypass the model.
type LanguagePreset struct {
	Labels   LabelSet
	NotFound string
}

var ArabicPreset = LanguagePreset{
	Labels:   LabelSet{"الصنف", "رمز HS6", "الرمز الثماني", "الوصف"},
	NotFound: "الصنف غير موجود أو ليس منتجاً مادياً",
}

// DefaultNotFoundMessage is shown when localizing the not-found text fails.
const DefaultNotFoundMessage = "Item not found or non-physical"

type Detection struct {
	Language LanguageTag
	Preset   *LanguagePreset
}

type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeNotFound OutcomeKind = "not_found"
	OutcomeFailure  OutcomeKind = "error"
)

type NotFoundReason string

const (
	NotFoundNoProposals NotFoundReason = "no_proposals"
	NotFoundNoMatch     NotFoundReason = "no_match"
)

// Outcome is the result of classifying one query. Exactly one of the
// Success, NotFound or Failure shapes is populated, selected by Kind.
type Outcome struct {
	Kind     OutcomeKind
	Language LanguageTag

	Results []MatchResult
	Labels  LabelSet

	Message        string
	NotFoundReason NotFoundReason

	Err error

	Duration time.Duration
}

func Succeeded(lang LanguageTag, results []MatchResult, labels LabelSet) Outcome {
	return Outcome{Kind: OutcomeSuccess, Language: lang, Results: results, Labels: labels}
}

func NotFound(lang LanguageTag, reason NotFoundReason, message string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Language: lang, NotFoundReason: reason, Message: message}
}

func Failed(err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{Kind: OutcomeFailure, Err: err, Message: msg}
}

// HS6Codes lists the hs6 values of a successful outcome in result order.
func (o Outcome) HS6Codes() []string {
	out := make([]string, 0, len(o.Results))
	for _, r := range o.Results {
		out = append(out, r.HS6)
	}
	return out
}
