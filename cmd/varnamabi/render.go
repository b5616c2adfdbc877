package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/varnam-abi/engine"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/transcoder"
)

type styles struct {
	title    lipgloss.Style
	category lipgloss.Style
	word     lipgloss.Style
	weight   lipgloss.Style
	value    lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
	selected lipgloss.Style
}

// newStyles returns colored styles, or unstyled ones for plain output.
func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain, plain, plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")),
		word: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")),
		weight: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90")),
		err: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")),
	}
}

func (st styles) renderResult(input string, res *result.TransliterationResult) string {
	var b strings.Builder
	b.WriteString(st.title.Render("varnam"))
	fmt.Fprintf(&b, " %s (%d suggestions)\n", input, res.Count())
	for _, c := range result.Categories() {
		arr := res.Get(c)
		if arr.IsEmpty() {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", st.category.Render(c.String()))
		for _, s := range arr.All() {
			fmt.Fprintf(&b, "  %s %s\n", st.word.Render(s.Text()), st.weight.Render(fmt.Sprintf("w=%d", s.Weight)))
		}
	}
	return b.String()
}

func (st styles) renderReport(r memoryReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", st.category.Render("linear memory ("+r.target.Name+")"))
	fmt.Fprintf(&b, "  result at %s, record %d bytes, %d words decoded\n",
		st.value.Render(fmt.Sprintf("0x%08x", r.addr)), r.size, r.decodedWords)
	row := func(label string, s engine.HeapStats) {
		fmt.Fprintf(&b, "  %-9s %s blocks, %s bytes\n", label,
			st.value.Render(fmt.Sprint(s.LiveBlocks)), st.value.Render(fmt.Sprint(s.LiveBytes)))
	}
	row("before", r.before)
	row("exported", r.exported)
	row("released", r.after)
	fmt.Fprintf(&b, "  %d allocations, %d frees, %d bad frees\n",
		r.after.Allocs-r.before.Allocs, r.after.Frees-r.before.Frees, r.after.BadFrees)
	if r.after.LiveBlocks != r.before.LiveBlocks {
		b.WriteString(st.err.Render("  leak: live blocks differ after release"))
		b.WriteString("\n")
	}
	return b.String()
}

func (st styles) renderSchemes(list *result.SchemeDetailsList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", st.category.Render("schemes"))
	for _, d := range list.Items.All() {
		stable := ""
		if d.IsStable {
			stable = " stable"
		}
		fmt.Fprintf(&b, "  %s %s [%s]%s\n", st.word.Render(d.Identifier.String()), d.DisplayName.String(), d.LangCode.String(), stable)
	}
	return b.String()
}

func (st styles) renderSymbols(list *result.SymbolList) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", st.category.Render("symbols"))
	for _, s := range list.Items.All() {
		fmt.Fprintf(&b, "  %-6s %s %s\n", s.Pattern.String(), st.word.Render(s.Value1.String()), st.weight.Render(s.Tag.String()))
	}
	return b.String()
}

var layoutKinds = []result.Kind{
	result.KindSuggestion,
	result.KindTransliterationResult,
	result.KindSchemeDetails,
	result.KindSymbol,
	result.KindSymbolList,
}

func (st styles) renderLayouts(lc *transcoder.LayoutCalculator) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", st.category.Render("layouts ("+lc.Target().Name+")"))
	for _, k := range layoutKinds {
		info, ok := lc.Record(k)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %-24s size %3d align %d\n", k.String(), info.Size, info.Align)
	}
	return b.String()
}
