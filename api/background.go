package api

import "strings"

type backgroundRule struct {
	keywords []string
	colors   [2]string
}

// Checked in order; the first rule with a keyword in the condition wins
var backgroundRules = []backgroundRule{
	{keywords: []string{"clear"}, colors: [2]string{"#4facfe", "#00f2fe"}},
	{keywords: []string{"rain", "drizzle", "storm"}, colors: [2]string{"#485563", "#29323c"}},
	{keywords: []string{"cloud", "overcast"}, colors: [2]string{"#bdc3c7", "#2c3e50"}},
	{keywords: []string{"snow"}, colors: [2]string{"#e6e9f0", "#eef1f5"}},
}

var defaultBackground = [2]string{"#6a11cb", "#2575fc"}

// BackgroundFor picks the card's gradient colours from a weather condition
// such as "light rain". Matching ignores case; an empty or unrecognised
// condition gets the default purple to blue.
func BackgroundFor(condition string) [2]string {
	cond := strings.ToLower(condition)
	for _, rule := range backgroundRules {
		for _, kw := range rule.keywords {
			if strings.Contains(cond, kw) {
				return rule.colors
			}
		}
	}
	return defaultBackground
}
