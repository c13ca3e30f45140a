package prompt

import (
	"fmt"
	"strings"
)

// SystemInstruction sets the copywriter persona for product descriptions.
const SystemInstruction = "You are a helpful AI copywriter specializing in e-commerce product descriptions."

// Description asks for a short product description. A blank name is passed
// through as is; callers that care reject it before calling.
func Description(productName string, keywords []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate a concise and informative product description for a product named \"%s\".\n", productName)
	sb.WriteString("The description should be 2-3 sentences and highlight its key features or benefits.\n")
	fmt.Fprintf(&sb, "Incorporate these keywords if relevant: %s.", strings.Join(keywords, ", "))

	return sb.String()
}

// DreamGadget wraps a shopper's raw idea into a concept-art prompt.
func DreamGadget(idea string) string {
	return fmt.Sprintf("A concept image of a futuristic gadget: %s. The style should be clean, modern, and visually appealing.", strings.TrimSpace(idea))
}

// ParseKeywords splits a comma separated keyword field, dropping blanks.
func ParseKeywords(value string) []string {
	out := []string{}
	for _, p := range strings.Split(value, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// NormalizeKeywords trims every keyword and drops empty ones.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, k)
	}
	return out
}
