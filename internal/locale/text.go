package locale

import "github.com/mmynk/tipsplitter/internal/models"

// Key names a UI label.
type Key string

const (
	KeyCalculator      Key = "calculator"
	KeyBillAmount      Key = "billAmount"
	KeyTipPercentage   Key = "tipPercentage"
	KeyNumberOfPeople  Key = "numberOfPeople"
	KeyTipAmount       Key = "tipAmount"
	KeyTotalBill       Key = "totalBill"
	KeyTipPerPerson    Key = "tipPerPerson"
	KeyTotalPerPerson  Key = "totalPerPerson"
	KeySaveImage       Key = "saveImage"
	KeyCurrency        Key = "currency"
	KeyHistory         Key = "history"
	KeyNoHistory       Key = "noHistory"
	KeyClearHistory    Key = "clearHistory"
	KeyBill            Key = "bill"
	KeyTip             Key = "tip"
	KeyPeople          Key = "people"
	KeyPerPerson       Key = "perPerson"
	KeyItemsCalculator Key = "itemsCalculator"
	KeyPerson          Key = "person"
	KeyName            Key = "name"
	KeyDescription     Key = "description"
	KeyPrice           Key = "price"
	KeySubtotal        Key = "subtotal"
	KeyGrandTotal      Key = "grandTotal"
	KeyTotal           Key = "total"
	KeyExpectedTotal   Key = "expectedTotal"
	KeyMismatch        Key = "mismatch"
	KeyDifference      Key = "difference"
	KeyShareSession    Key = "shareSession"
	KeyParticipants    Key = "participants"
	KeyTotalAmount     Key = "totalAmount"
	KeyNoParticipants  Key = "noParticipants"
	KeySessionLink     Key = "sessionLink"
)

var texts = map[Key]map[models.Language]string{
	KeyCalculator:      {models.LanguageEnglish: "Bill Calculator", models.LanguageHebrew: "מחשבון חשבון"},
	KeyBillAmount:      {models.LanguageEnglish: "Bill Amount", models.LanguageHebrew: "סכום החשבון"},
	KeyTipPercentage:   {models.LanguageEnglish: "Tip Percentage", models.LanguageHebrew: "אחוז טיפ"},
	KeyNumberOfPeople:  {models.LanguageEnglish: "Number of People", models.LanguageHebrew: "מספר אנשים"},
	KeyTipAmount:       {models.LanguageEnglish: "Tip Amount", models.LanguageHebrew: "סכום הטיפ"},
	KeyTotalBill:       {models.LanguageEnglish: "Total Bill", models.LanguageHebrew: "סה״כ לתשלום"},
	KeyTipPerPerson:    {models.LanguageEnglish: "Tip Per Person", models.LanguageHebrew: "טיפ לאדם"},
	KeyTotalPerPerson:  {models.LanguageEnglish: "Total Per Person", models.LanguageHebrew: "סה״כ לאדם"},
	KeySaveImage:       {models.LanguageEnglish: "Save as Image", models.LanguageHebrew: "שמור כתמונה"},
	KeyCurrency:        {models.LanguageEnglish: "Currency", models.LanguageHebrew: "מטבע"},
	KeyHistory:         {models.LanguageEnglish: "History", models.LanguageHebrew: "היסטוריה"},
	KeyNoHistory:       {models.LanguageEnglish: "No recent calculations", models.LanguageHebrew: "אין חישובים אחרונים"},
	KeyClearHistory:    {models.LanguageEnglish: "Clear History", models.LanguageHebrew: "נקה היסטוריה"},
	KeyBill:            {models.LanguageEnglish: "Bill", models.LanguageHebrew: "חשבון"},
	KeyTip:             {models.LanguageEnglish: "Tip", models.LanguageHebrew: "טיפ"},
	KeyPeople:          {models.LanguageEnglish: "People", models.LanguageHebrew: "אנשים"},
	KeyPerPerson:       {models.LanguageEnglish: "Per Person", models.LanguageHebrew: "לאדם"},
	KeyItemsCalculator: {models.LanguageEnglish: "Personal Items Calculator", models.LanguageHebrew: "מחשבון פריטים אישי"},
	KeyPerson:          {models.LanguageEnglish: "Person", models.LanguageHebrew: "אדם"},
	KeyName:            {models.LanguageEnglish: "Name", models.LanguageHebrew: "שם"},
	KeyDescription:     {models.LanguageEnglish: "Description", models.LanguageHebrew: "תיאור"},
	KeyPrice:           {models.LanguageEnglish: "Price", models.LanguageHebrew: "מחיר"},
	KeySubtotal:        {models.LanguageEnglish: "Subtotal", models.LanguageHebrew: "סיכום ביניים"},
	KeyGrandTotal:      {models.LanguageEnglish: "Grand Total", models.LanguageHebrew: "סה״כ לתשלום"},
	KeyTotal:           {models.LanguageEnglish: "Total", models.LanguageHebrew: "סה״כ"},
	KeyExpectedTotal:   {models.LanguageEnglish: "Expected Total (for verification)", models.LanguageHebrew: "סכום צפוי (לאימות)"},
	KeyMismatch: {
		models.LanguageEnglish: "The total doesn't match the sum of individual items. Check if you missed any item.",
		models.LanguageHebrew:  "הסכום הכולל אינו תואם לסכום הפריטים הבודדים. בדוק אם שכחת פריט כלשהו.",
	},
	KeyDifference:   {models.LanguageEnglish: "Difference", models.LanguageHebrew: "הפרש"},
	KeyShareSession: {models.LanguageEnglish: "Share Calculation", models.LanguageHebrew: "שיתוף חישוב"},
	KeyParticipants: {models.LanguageEnglish: "Participants", models.LanguageHebrew: "משתתפים"},
	KeyTotalAmount:  {models.LanguageEnglish: "Total Amount", models.LanguageHebrew: "סכום כולל"},
	KeyNoParticipants: {
		models.LanguageEnglish: "No participants yet. Share the session link to invite friends!",
		models.LanguageHebrew:  "אין משתתפים עדיין. שתף את הקישור להזמין חברים!",
	},
	KeySessionLink: {models.LanguageEnglish: "Session link", models.LanguageHebrew: "קישור לסשן"},
}

// Text returns the label for key in lang, falling back to English and then
// to the key itself.
func Text(key Key, lang models.Language) string {
	byLang, ok := texts[key]
	if !ok {
		return string(key)
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[models.LanguageEnglish]
}

