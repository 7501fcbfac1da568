package score

import (
	"sort"

	"github.com/sentralab/sentra/internal/model"
)

// levelAdvice applies whenever the named level is reached, regardless of
// which categories drove it.
var levelAdvice = map[model.RiskLevel][]model.Recommendation{
	model.LevelCritical: {
		{Action: "Escalate to the security team or incident response immediately.", Priority: 1},
		{Action: "Block and preserve the source content for forensic analysis.", Priority: 1},
	},
	model.LevelHigh: {
		{Action: "Flag for urgent review by a human analyst.", Priority: 2},
		{Action: "Document the incident and cross-reference known threat actors.", Priority: 2},
	},
}

// categoryAdvice applies when the category contributed to a non-SAFE result.
var categoryAdvice = map[model.Category][]model.Recommendation{
	model.CategoryViolence: {
		{Action: "Notify the appropriate authorities if the threat appears credible and imminent.", Priority: 3},
		{Action: "Preserve the evidence chain for potential legal action.", Priority: 3},
	},
	model.CategoryCybersecurity: {
		{Action: "Run endpoint scans and isolate affected systems if compromise is suspected.", Priority: 3},
		{Action: "Rotate exposed credentials and invalidate active sessions.", Priority: 3},
	},
	model.CategorySocialEngineering: {
		{Action: "Do not follow links or supply credentials; report the message as phishing.", Priority: 3},
		{Action: "Circulate a security awareness notice to potentially targeted users.", Priority: 3},
	},
	model.CategoryHateSpeech: {
		{Action: "Remove the content under the applicable platform guidelines.", Priority: 3},
		{Action: "Report the source to the platform trust and safety team.", Priority: 3},
	},
	model.CategoryMisinformation: {
		{Action: "Fact-check the claims against verified sources before any redistribution.", Priority: 3},
		{Action: "Label the content as potentially misleading where the platform supports it.", Priority: 3},
	},
	model.CategorySuspiciousActivity: {
		{Action: "Investigate the surrounding communication context and participants.", Priority: 3},
		{Action: "Map the relationship network around the source for follow-up.", Priority: 3},
	},
	model.CategoryDataExfiltration: {
		{Action: "Audit recent outbound transfers and revoke suspicious access tokens.", Priority: 3},
		{Action: "Check data loss prevention logs for transfers matching the referenced assets.", Priority: 3},
	},
}

// fallbackAdvice covers flagged content that matched no advised category.
var fallbackAdvice = []model.Recommendation{
	{Action: "No immediate action required; continue routine monitoring.", Priority: 9},
	{Action: "Log the event for trend analysis and baseline comparison.", Priority: 9},
}

// Recommend selects mitigation guidance for a level and its contributing
// categories. SAFE content gets an empty, non-nil list. Duplicates are
// dropped; the result is ordered by priority, then by insertion order.
func Recommend(level model.RiskLevel, categories []model.Category) []model.Recommendation {
	recs := []model.Recommendation{}
	if level == model.LevelSafe {
		return recs
	}

	seen := make(map[string]bool)
	add := func(batch []model.Recommendation) {
		for _, r := range batch {
			if seen[r.Action] {
				continue
			}
			seen[r.Action] = true
			recs = append(recs, r)
		}
	}

	add(levelAdvice[level])
	for _, cat := range categories {
		add(categoryAdvice[cat])
	}
	if len(recs) == 0 {
		add(fallbackAdvice)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}
