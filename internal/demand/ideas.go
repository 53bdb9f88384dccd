package demand

import (
	"fmt"
	"strings"

	"review_demand/internal/domain"
)

type ideaRule func(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool)

// rule order is emission order
var ideaRules = []ideaRule{
	faqIdea,
	filterIdea,
	curatedIdea,
	comparisonIdea,
	seoIdea,
}

// GenerateIdeas derives up to five recommendations from res. Each rule fires only
// when the finding it needs is present. Output is deterministic.
func GenerateIdeas(res domain.AnalysisResult, category, city string) []domain.ContentIdea {
	out := make([]domain.ContentIdea, 0, len(ideaRules))
	for _, rule := range ideaRules {
		if idea, ok := rule(res, category, city); ok {
			out = append(out, idea)
		}
	}
	return out
}

func faqIdea(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool) {
	if len(res.TopComplaints) == 0 {
		return domain.ContentIdea{}, false
	}
	top := res.TopComplaints[0]
	return domain.ContentIdea{
		Type:     "FAQ Section",
		Title:    fmt.Sprintf("FAQ: %q at %s in %s", top.Term, category, city),
		Priority: domain.PriorityHigh,
		Description: fmt.Sprintf(
			"Visitors complain about %q (%d mentions). Answer it up front in an FAQ block so searchers find the answer on your page instead of in reviews.",
			top.Term, top.Count),
		EstimatedImpact: "Captures question-style long-tail searches and keeps problem-driven visitors on the page",
		Implementation: lines(
			"Add an FAQ section to the "+category+" pillar page",
			fmt.Sprintf("Answer how to avoid or work around %q", top.Term),
			"Name the venues where the problem does not occur",
			"Mark the block up as FAQPage structured data",
		),
	}, true
}

func filterIdea(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool) {
	if len(res.UnmetNeeds) == 0 {
		return domain.ContentIdea{}, false
	}
	top := res.UnmetNeeds[0]
	label := featureLabel(top.Term)
	return domain.ContentIdea{
		Type:     "Filter Feature",
		Title:    fmt.Sprintf("Add a %q filter for %s in %s", label, category, city),
		Priority: domain.PriorityHigh,
		Description: fmt.Sprintf(
			"%s is the most requested missing feature (%d mentions in complaints). A filter lets visitors go straight to the %s that offer it.",
			capitalize(label), top.Count, category),
		EstimatedImpact: "Higher engagement and return visits from users with a concrete requirement",
		Implementation: lines(
			fmt.Sprintf("Collect the %s attribute for every listed venue", label),
			"Add a filter toggle to the listing",
			fmt.Sprintf("Show a %s badge on matching venues", label),
			"Track filter usage to confirm demand",
		),
	}, true
}

func curatedIdea(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool) {
	if len(res.TopPraise) == 0 {
		return domain.ContentIdea{}, false
	}
	top := res.TopPraise[0]
	return domain.ContentIdea{
		Type:     "Curated Content",
		Title:    fmt.Sprintf("Best %s in %s: %s", category, city, top.Term),
		Priority: domain.PriorityMedium,
		Description: fmt.Sprintf(
			"Reviewers keep praising %q (%d mentions). Build a best-of list around what people already love.",
			top.Term, top.Count),
		EstimatedImpact: "Ranks for \"best of\" queries and earns shares and backlinks",
		Implementation: lines(
			fmt.Sprintf("Pick the 5 to 10 venues most often praised for %q", top.Term),
			"Write a short paragraph per venue quoting the praise",
			"Add photos and a map",
			"Link the list from the pillar page",
		),
	}, true
}

func comparisonIdea(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool) {
	if len(res.UnmetNeeds) < 2 {
		return domain.ContentIdea{}, false
	}
	a, b := res.UnmetNeeds[0], res.UnmetNeeds[1]
	la, lb := featureLabel(a.Term), featureLabel(b.Term)
	return domain.ContentIdea{
		Type:     "Comparison Tool",
		Title:    fmt.Sprintf("Compare %s in %s by %s and %s", category, city, la, lb),
		Priority: domain.PriorityMedium,
		Description: fmt.Sprintf(
			"%s (%d mentions) and %s (%d mentions) are the two most requested features. A side-by-side comparison answers both at once.",
			capitalize(la), a.Count, capitalize(lb), b.Count),
		EstimatedImpact: "Longer sessions and comparison-intent traffic",
		Implementation: lines(
			fmt.Sprintf("Build a table of venues with %s and %s columns", la, lb),
			"Make the columns sortable",
			"Highlight venues that offer both",
		),
	}, true
}

func seoIdea(res domain.AnalysisResult, category, city string) (domain.ContentIdea, bool) {
	if len(res.ComplaintKeywords) == 0 {
		return domain.ContentIdea{}, false
	}
	top := res.ComplaintKeywords[0]
	return domain.ContentIdea{
		Type:     "SEO Optimization",
		Title:    fmt.Sprintf("Target %q searches for %s in %s", top.Term, category, city),
		Priority: domain.PriorityMedium,
		Description: fmt.Sprintf(
			"%q appears %d times in negative reviews. People searching for it are underserved by existing listings.",
			top.Term, top.Count),
		EstimatedImpact: "Additional organic traffic from problem-aware searches",
		Implementation: lines(
			fmt.Sprintf("Use %q in headings and meta description", top.Term+" "+category+" "+city),
			"Write a section that addresses the keyword directly",
			"Add internal links with the keyword as anchor text",
		),
	}, true
}

func featureLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func lines(items ...string) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(it)
	}
	return b.String()
}
