package analysis

// Policy category keys the pipeline scores. The model is prompted with this
// exact list; unknown keys coming back are preserved as-is.
const (
	CategoryProfanity       = "ADVERTISER_FRIENDLY_PROFANITY"
	CategoryHateSpeech      = "HATE_SPEECH"
	CategoryGraphicViolence = "VIOLENCE_GRAPHIC"
	CategorySexualContent   = "SEXUAL_CONTENT"
	CategoryDangerousActs   = "HARMFUL_DANGEROUS_ACTS"
	CategoryMisinformation  = "MISINFORMATION"
	CategoryChildSafety     = "CHILD_SAFETY"
	CategoryReusedContent   = "COPYRIGHT_REUSED_CONTENT"
	CategorySpamDeceptive   = "SPAM_DECEPTIVE_PRACTICES"
	CategoryFirearms        = "FIREARMS_WEAPONS"
	CategoryRegulatedGoods  = "ILLEGAL_REGULATED_GOODS"
)

// PolicyCategories is the canonical ordered list used by prompts and tests.
var PolicyCategories = []string{
	CategoryProfanity,
	CategoryHateSpeech,
	CategoryGraphicViolence,
	CategorySexualContent,
	CategoryDangerousActs,
	CategoryMisinformation,
	CategoryChildSafety,
	CategoryReusedContent,
	CategorySpamDeceptive,
	CategoryFirearms,
	CategoryRegulatedGoods,
}
