package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/termime/pkg/frame"
)

var latexSymbols = map[string]string{
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ", `\epsilon`: "ε",
	`\zeta`: "ζ", `\eta`: "η", `\theta`: "θ", `\iota`: "ι", `\kappa`: "κ",
	`\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ", `\pi`: "π",
	`\rho`: "ρ", `\sigma`: "σ", `\tau`: "τ", `\phi`: "φ", `\chi`: "χ",
	`\psi`: "ψ", `\omega`: "ω", `\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ",
	`\Lambda`: "Λ", `\Pi`: "Π", `\Sigma`: "Σ", `\Phi`: "Φ", `\Psi`: "Ψ",
	`\Omega`: "Ω",
	`\infty`: "∞", `\sum`: "∑", `\prod`: "∏", `\int`: "∫", `\partial`: "∂",
	`\nabla`: "∇", `\sqrt`: "√", `\pm`: "±", `\mp`: "∓", `\times`: "×",
	`\cdot`: "·", `\div`: "÷", `\leq`: "≤", `\geq`: "≥", `\le`: "≤",
	`\ge`: "≥", `\neq`: "≠", `\ne`: "≠", `\approx`: "≈", `\equiv`: "≡",
	`\sim`: "∼", `\propto`: "∝", `\in`: "∈", `\notin`: "∉", `\subset`: "⊂",
	`\subseteq`: "⊆", `\cup`: "∪", `\cap`: "∩", `\emptyset`: "∅",
	`\forall`: "∀", `\exists`: "∃", `\neg`: "¬", `\wedge`: "∧", `\vee`: "∨",
	`\to`: "→", `\rightarrow`: "→", `\leftarrow`: "←", `\Rightarrow`: "⇒",
	`\Leftarrow`: "⇐", `\leftrightarrow`: "↔", `\Leftrightarrow`: "⇔",
	`\mapsto`: "↦", `\ldots`: "…", `\cdots`: "⋯", `\quad`: "  ", `\qquad`: "    ",
	`\,`: " ", `\;`: " ", `\!`: "", `\left`: "", `\right`: "",
	`\mathbb{R}`: "ℝ", `\mathbb{N}`: "ℕ", `\mathbb{Z}`: "ℤ", `\mathbb{Q}`: "ℚ",
	`\mathbb{C}`: "ℂ",
}

var superscripts = strings.NewReplacer(
	"0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
	"+", "⁺", "-", "⁻", "n", "ⁿ", "i", "ⁱ",
)

var subscripts = strings.NewReplacer(
	"0", "₀", "1", "₁", "2", "₂", "3", "₃", "4", "₄",
	"5", "₅", "6", "₆", "7", "₇", "8", "₈", "9", "₉",
	"+", "₊", "-", "₋", "i", "ᵢ", "j", "ⱼ", "k", "ₖ",
	"m", "ₘ", "n", "ₙ",
)

var (
	latexFrac     = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)
	latexSup      = regexp.MustCompile(`\^(\{([^{}]*)\}|([0-9a-z+-]))`)
	latexSub      = regexp.MustCompile(`_(\{([^{}]*)\}|([0-9a-z+-]))`)
	latexStyling  = regexp.MustCompile(`\\(?:text|mathrm|mathbf|mathit|operatorname|textbf|emph)\{([^{}]*)\}`)
	latexDelims   = regexp.MustCompile(`\$\$?|\\\[|\\\]|\\\(|\\\)`)
	latexEnv      = regexp.MustCompile(`\\(?:begin|end)\{[a-z*]+\}`)
	latexMacroKey []string
)

func init() {
	for k := range latexSymbols {
		latexMacroKey = append(latexMacroKey, k)
	}
	// Longest first so \leq is not read as \le + q
	sort.Slice(latexMacroKey, func(i, j int) bool {
		if len(latexMacroKey[i]) != len(latexMacroKey[j]) {
			return len(latexMacroKey[i]) > len(latexMacroKey[j])
		}
		return latexMacroKey[i] < latexMacroKey[j]
	})
}

// LaTeX renders LaTeX as plain text, replacing common macros with Unicode
type LaTeX struct {
	env *Env
}

// Render implements Renderer
func (r *LaTeX) Render(h frame.Header, data []byte, sink Sink) error {
	text := PlainLaTeX(string(data))
	sink.Insert(h, r.env.theme().Render("Math", text))
	return nil
}

// PlainLaTeX converts LaTeX source to a Unicode approximation
func PlainLaTeX(src string) string {
	s := latexDelims.ReplaceAllString(src, "")
	s = latexEnv.ReplaceAllString(s, "")
	s = latexStyling.ReplaceAllString(s, "$1")

	for prev := ""; prev != s; {
		prev = s
		s = latexFrac.ReplaceAllString(s, "($1)/($2)")
	}

	pairs := make([]string, 0, 2*len(latexMacroKey))
	for _, k := range latexMacroKey {
		pairs = append(pairs, k, latexSymbols[k])
	}
	s = strings.NewReplacer(pairs...).Replace(s)

	s = latexSup.ReplaceAllStringFunc(s, func(m string) string {
		return script(m[1:], superscripts, "^")
	})
	s = latexSub.ReplaceAllStringFunc(s, func(m string) string {
		return script(m[1:], subscripts, "_")
	})

	s = strings.NewReplacer(`\\`, "\n", "&", " ", "{", "", "}", "").Replace(s)
	return strings.TrimSpace(s)
}

// script maps an exponent or index to Unicode when every rune has a form,
// keeping the marker otherwise
func script(arg string, table *strings.Replacer, marker string) string {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "{"), "}")
	out := table.Replace(arg)
	for _, r := range out {
		if r < 0x80 {
			return marker + "(" + arg + ")"
		}
	}
	return out
}
