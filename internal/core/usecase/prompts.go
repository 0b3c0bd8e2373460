package usecase

import (
	"fmt"
	"strings"

	"github.com/acrossmena/hs-classifier/internal/core/domain"
	"github.com/acrossmena/hs-classifier/internal/core/ports"
)

func buildLanguagePrompt(query domain.Query) string {
	return fmt.Sprintf(
		"Identify the language or dialect of this text: '%s'. "+
			"Return ONLY the name of the language in English (e.g., French, Syrian Arabic, German).",
		query,
	)
}

func buildProposalPrompt(query domain.Query, lang domain.LanguageTag, rules []ports.DisambiguationRule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context Instruction for '%s':\n", query)
	for _, rule := range rules {
		if strings.TrimSpace(rule.Instruction) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(rule.Instruction))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Analyze the item: '%s'. Provide the top 3 relevant HS6 codes for PHYSICAL PRODUCTS.\n", query)
	fmt.Fprintf(&b, "CRITICAL: You must respond ONLY in %s.\n", lang)
	b.WriteString("Format strictly, one candidate per line: [Item Category]: [HS6 Code]")
	return b.String()
}

func buildDescribePrompt(material string, query domain.Query, lang domain.LanguageTag, hints []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Describe this product: '%s' using ONLY %s. ", material, lang)
	fmt.Fprintf(&b, "Context: The user asked about '%s'. ", query)
	for _, hint := range hints {
		b.WriteString(strings.TrimSpace(hint))
		b.WriteString(" ")
	}
	b.WriteString("Keep it short (1-2 sentences). Return ONLY the description.")
	return b.String()
}

func buildLabelsPrompt(lang domain.LanguageTag) string {
	return fmt.Sprintf(
		"Translate these 4 labels to %s: 'Item Name', 'HS6 Code', '8-Digit Code', 'Simplified Description'. "+
			"Return ONLY the labels separated by commas, no extra text.",
		lang,
	)
}

func buildNotFoundPrompt(lang domain.LanguageTag) string {
	return fmt.Sprintf("Translate '%s' to %s. Return ONLY the translation.", domain.DefaultNotFoundMessage, lang)
}
