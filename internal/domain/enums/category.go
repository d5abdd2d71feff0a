package enums

// Category is a prohibited-content classification. The set is closed:
// every detector in domain/rules maps to exactly one of these tags.
type Category string

const (
	CategoryProfanity        Category = "profanity"
	CategoryExternalPlatform Category = "external_platform"
	CategoryPhoneNumber      Category = "phone_number"
	CategoryExternalPayment  Category = "external_payment"
	CategorySexualContent    Category = "sexual_content"
	CategoryDrugs            Category = "drugs"
)
