package recommend

// Category groups signup features by the role they serve.
type Category string

const (
	CategoryStudent    Category = "student"
	CategoryInstructor Category = "instructor"
	CategorySeller     Category = "seller"
	CategoryConnect    Category = "connect"
)

// Feature is a capability a user can opt into during registration. The
// catalog is static; it gates which plan tier a signup requires.
type Feature struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// Catalog is the ordered list of selectable signup features.
var Catalog = []Feature{
	{ID: "enroll_courses", Label: "Enroll in courses", Category: CategoryStudent},
	{ID: "track_progress", Label: "Track learning progress", Category: CategoryStudent},
	{ID: "download_materials", Label: "Download course materials", Category: CategoryStudent},
	{ID: "create_courses", Label: "Create and publish courses", Category: CategoryInstructor},
	{ID: "host_live_classes", Label: "Host live classes", Category: CategoryInstructor},
	{ID: "issue_certificates", Label: "Issue completion certificates", Category: CategoryInstructor},
	{ID: "list_products", Label: "List products in the store", Category: CategorySeller},
	{ID: "sell_products", Label: "Sell products and collect payouts", Category: CategorySeller},
	{ID: "seller_analytics", Label: "Sales analytics dashboard", Category: CategorySeller},
	{ID: "browse_professionals", Label: "Browse dance professionals", Category: CategoryConnect},
	{ID: "book_professionals", Label: "Book dance professionals", Category: CategoryConnect},
	{ID: "message_users", Label: "Message other members", Category: CategoryConnect},
	{ID: "featured_profile", Label: "Featured profile placement", Category: CategoryConnect},
}

// featureTierRequirements maps every catalog feature to the minimum tier
// that unlocks it. Features absent from the map require the free tier.
var featureTierRequirements = map[string]Tier{
	"enroll_courses":       TierFree,
	"track_progress":       TierFree,
	"download_materials":   TierSilver,
	"create_courses":       TierSilver,
	"host_live_classes":    TierGold,
	"issue_certificates":   TierGold,
	"list_products":        TierSilver,
	"sell_products":        TierGold,
	"seller_analytics":     TierPlatinum,
	"browse_professionals": TierFree,
	"book_professionals":   TierSilver,
	"message_users":        TierSilver,
	"featured_profile":     TierPlatinum,
}

// RequiredTierFor returns the minimum tier a single feature requires.
// Unknown feature IDs require the free tier rather than failing.
func RequiredTierFor(featureID string) Tier {
	if tier, ok := featureTierRequirements[featureID]; ok {
		return tier
	}
	return TierFree
}

// KnownFeature reports whether the ID is part of the static catalog.
func KnownFeature(featureID string) bool {
	for _, f := range Catalog {
		if f.ID == featureID {
			return true
		}
	}
	return false
}
