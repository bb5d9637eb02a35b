package dialog

// LoanPurpose is the backend's loan purpose enum.
type LoanPurpose string

const (
	PurposeAgriculture    LoanPurpose = "AGRICULTURE"
	PurposeBusiness       LoanPurpose = "BUSINESS"
	PurposeEducation      LoanPurpose = "EDUCATION"
	PurposeMedical        LoanPurpose = "MEDICAL"
	PurposeHomeRepair     LoanPurpose = "HOME_REPAIR"
	PurposeFamilyFunction LoanPurpose = "FAMILY_FUNCTION"
	PurposeOther          LoanPurpose = "OTHER"
)

var purposeByCode = map[string]LoanPurpose{
	"1": PurposeAgriculture,
	"2": PurposeBusiness,
	"3": PurposeEducation,
	"4": PurposeMedical,
	"5": PurposeHomeRepair,
	"6": PurposeFamilyFunction,
	"7": PurposeOther,
}

// PurposeFromCode maps a menu digit onto a loan purpose.
func PurposeFromCode(code string) (LoanPurpose, bool) {
	p, ok := purposeByCode[code]
	return p, ok
}
