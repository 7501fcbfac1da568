package detect

import "github.com/sentralab/sentra/internal/model"

// ruleDefinitions is the built-in detection corpus. Patterns are written for
// normalized (lower-cased, whitespace-collapsed) text, so no case flags.
// Declaration order is the tie-break order everywhere downstream.
var ruleDefinitions = []struct {
	category   model.Category
	baseWeight float64
	patterns   []string
}{
	{
		category:   model.CategoryViolence,
		baseWeight: 35,
		patterns: []string{
			`\b(kill|murder|shoot|bomb|explode|attack|assault|stab|massacre)\b`,
			`\b(weapon|gun|knife|explosive|grenade|rpg|ied)\b`,
			`\b(plant|planted|place|placed|rig|rigged|set)\b.{0,20}\b(bomb|explosive|device|charge)\b`,
			`\b(threat|threaten|harm|hurt|destroy)\b.{0,30}\b(you|them|people|everyone)\b`,
		},
	},
	{
		category:   model.CategoryCybersecurity,
		baseWeight: 28,
		patterns: []string{
			`\b(hack|exploit|malware|ransomware|phishing|ddos|botnet)\b`,
			`\b(sql injection|xss|zero.?day|backdoor|rootkit|keylogger)\b`,
			`\b(breach|compromise|infiltrate|exfiltrate)\b`,
		},
	},
	{
		category:   model.CategorySocialEngineering,
		baseWeight: 22,
		patterns: []string{
			`\b(urgent|immediately|verify your|confirm your|suspended)\b.{0,40}\b(account|password|identity|payment)\b`,
			`\b(click here|act now|limited time|winner|congratulations)\b`,
			`\b(wire transfer|gift card|bitcoin payment|western union)\b`,
		},
	},
	{
		category:   model.CategoryHateSpeech,
		baseWeight: 30,
		patterns: []string{
			`\b(exterminate|eradicate|cleanse)\b.{0,30}\b(people|group|race|them)\b`,
			`\b(subhuman|vermin|parasites)\b`,
		},
	},
	{
		category:   model.CategoryMisinformation,
		baseWeight: 15,
		patterns: []string{
			`\b(fake news|hoax|conspiracy|cover.?up)\b`,
			`\b(they don'?t want you to know|wake up people|sheeple)\b`,
			`\b(miracle cure|big pharma hiding|suppressed truth)\b`,
		},
	},
	{
		category:   model.CategorySuspiciousActivity,
		baseWeight: 25,
		patterns: []string{
			`\b(meet at|package ready|delivery scheduled)\b.{0,30}\b(midnight|2am|3am|warehouse|dock)\b`,
			`\b(burner phone|untraceable|no witnesses|leave no trace)\b`,
			`\b(cash only|unmarked bills|dead drop)\b`,
		},
	},
	{
		category:   model.CategoryDataExfiltration,
		baseWeight: 28,
		patterns: []string{
			`\b(download|copy|transfer)\b.{0,30}\b(database|customer data|credentials|records)\b`,
			`\b(usb drive|external drive)\b.{0,30}\b(company|corporate|confidential)\b`,
		},
	},
}
