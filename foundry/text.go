package foundry

import (
	"regexp"
	"sort"
	"strings"
)

// protectedSpan matches text that already carries a host macro. Rewriting
// never enters these spans, which is what makes every pass idempotent.
var protectedSpan = regexp.MustCompile(`@UUID\[[^\]]*\](?:\{[^}]*\})?|@Check\[[^\]]*\]|\[\[/r [^\]]*\]\]`)

var (
	doubleBracketRef = regexp.MustCompile(`\[\[([A-Za-z][A-Za-z' -]*?)\]\]`)
	singleBracketRef = regexp.MustCompile(`\[([A-Za-z][A-Za-z' -]*?)\]`)
	emphasisSpan     = regexp.MustCompile(`\*([^*\n]+)\*`)
	checkPhrase      = regexp.MustCompile(`(?i)\bDC (\d+) ([A-Za-z]+)\b`)
	diceExpr         = regexp.MustCompile(`\b(\d+d\d+(?:[+-]\d+)?)\b`)
)

// rewriter performs in-text cross-reference rewriting against a system
// configuration. Construct once per Mapper; safe for concurrent readers.
type rewriter struct {
	cfg *SystemConfig
	// mention matches bare condition-name mentions, longest name first so
	// hyphenated conditions beat their prefixes. Nil when the configuration
	// declares no conditions.
	mention *regexp.Regexp
}

func newRewriter(cfg *SystemConfig) *rewriter {
	names := make([]string, 0, len(cfg.Conditions))
	for name := range cfg.Conditions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	var mention *regexp.Regexp
	if len(names) > 0 {
		for i := range names {
			names[i] = regexp.QuoteMeta(names[i])
		}
		mention = regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
	}
	return &rewriter{cfg: cfg, mention: mention}
}

// outside applies fn to the stretches of text between protected macro spans,
// leaving the spans themselves untouched.
func (r *rewriter) outside(text string, fn func(string) string) string {
	spans := protectedSpan.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return fn(text)
	}
	var sb strings.Builder
	last := 0
	for _, sp := range spans {
		sb.WriteString(fn(text[last:sp[0]]))
		sb.WriteString(text[sp[0]:sp[1]])
		last = sp[1]
	}
	sb.WriteString(fn(text[last:]))
	return sb.String()
}

// RewriteRefs rewrites condition mentions and bracket reference glyphs into
// @UUID cross-reference macros, case-insensitively. Each pass re-scans for
// protected spans, so macros produced by an earlier pass (or an earlier call)
// are never rewritten again.
func (r *rewriter) RewriteRefs(text string) string {
	if text == "" {
		return ""
	}
	text = r.outside(text, func(seg string) string {
		return doubleBracketRef.ReplaceAllStringFunc(seg, r.bracketRef)
	})
	text = r.outside(text, func(seg string) string {
		return singleBracketRef.ReplaceAllStringFunc(seg, r.bracketRef)
	})
	if r.mention != nil {
		text = r.outside(text, func(seg string) string {
			return r.mention.ReplaceAllStringFunc(seg, func(name string) string {
				ref := r.cfg.Conditions[strings.ToLower(name)]
				return r.cfg.conditionMacro(ref)
			})
		})
	}
	return text
}

// bracketRef resolves one bracketed name. Unrecognized names keep their
// original text.
func (r *rewriter) bracketRef(match string) string {
	name := strings.TrimSpace(strings.Trim(match, "[]"))
	ref, ok := r.cfg.Conditions[strings.ToLower(name)]
	if !ok {
		return match
	}
	return r.cfg.conditionMacro(ref)
}

// AnnotateHazardText rewrites difficulty-check phrases ("DC 20 Thievery")
// into @Check macros and dice expressions ("2d6+4") into inline-roll macros,
// then applies the standard reference rewriting. Idempotent.
func (r *rewriter) AnnotateHazardText(text string) string {
	if text == "" {
		return ""
	}
	text = r.outside(text, func(seg string) string {
		return checkPhrase.ReplaceAllStringFunc(seg, func(m string) string {
			sub := checkPhrase.FindStringSubmatch(m)
			return "@Check[type:" + strings.ToLower(sub[2]) + "|dc:" + sub[1] + "]"
		})
	})
	text = r.outside(text, func(seg string) string {
		return diceExpr.ReplaceAllString(seg, "[[/r $1]]")
	})
	return r.RewriteRefs(text)
}

// renderEmphasis converts lightweight *emphasis* markup into inline HTML.
func renderEmphasis(text string) string {
	return emphasisSpan.ReplaceAllString(text, "<em>$1</em>")
}
