// Package catalog holds the reply templates the dialog engine sends to
// members, keyed by language. Templates with parameters are methods so
// call sites cannot forget an argument.
package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Language is the member's preferred language code as stored by the backend.
type Language string

const (
	English Language = "ENGLISH"
	Tamil   Language = "TAMIL"
	Hindi   Language = "HINDI"
	Telugu  Language = "TELUGU"
)

// Loan is the subset of a loan record the catalog renders.
type Loan struct {
	Amount  decimal.Decimal
	Purpose string
	Status  string
}

// Scheme is the subset of a scheme record the catalog renders.
type Scheme struct {
	Name string
}

// Messages is the full reply set for one language.
type Messages struct {
	WelcomeMenu        string
	AskContribution    string
	AskRepayment       string
	AskRepaymentAmount string
	SavedSuccess       string
	AskLoanAmount      string
	AskLoanPurpose     string
	AskLoanMonths      string
	AskOutstanding     string
	InvalidInput       string
	NotRegistered      string
	SomethingWrong     string
	LoanRejected       string
}

// ForLanguage returns the message set for the given language, falling back
// to English for languages without a translation and for unknown codes.
func ForLanguage(lang Language) Messages {
	switch lang {
	case Tamil, Hindi, Telugu:
		// Translations ship separately; until then every language reads English.
		return english
	default:
		return english
	}
}

var english = Messages{
	WelcomeMenu: "Welcome to Sakhi 🌸\n\nWhat would you like to do?\n\n" +
		"1. Record this month's contribution\n" +
		"2. Request a loan\n" +
		"3. View my credit score\n" +
		"4. View loan details\n" +
		"5. Contact my group leader\n" +
		"6. View government schemes",

	AskContribution: "How much are you contributing this month? (Reply with ₹ amount)",

	AskRepayment: "Do you have a loan repayment this month?\n1. Yes\n2. No",

	AskRepaymentAmount: "How much are you repaying? (Reply with ₹ amount)",

	SavedSuccess: "Thank you! Your record has been updated ✅\nThis will be reflected in your credit score. 🌸",

	AskLoanAmount: "How much loan are you requesting? (Reply with ₹ amount)",

	AskLoanPurpose: "What is the reason for the loan?\n" +
		"1. Agriculture / Livestock\n" +
		"2. Small Business\n" +
		"3. Education\n" +
		"4. Medical Emergency\n" +
		"5. Home Repair\n" +
		"6. Family Function\n" +
		"7. Other",

	AskLoanMonths: "In how many months will you repay?",

	AskOutstanding: "Do you currently have any outstanding loan?\n1. Yes\n2. No",

	InvalidInput: "Please enter a valid option.",

	NotRegistered: "You are not registered in Sakhi. Please contact your SHG leader to register you.",

	SomethingWrong: "Something went wrong. Please type 'menu' to restart.",

	LoanRejected: "We're sorry, your loan request has been rejected. Please contact your group leader for more details.",
}

// ConfirmCheckin renders the check-in confirmation summary. A nil repayment
// means the member declined to repay this month.
func (m Messages) ConfirmCheckin(contribution decimal.Decimal, repayment *decimal.Decimal) string {
	repay := "None"
	if repayment != nil {
		repay = "₹" + repayment.String()
	}
	return fmt.Sprintf("Please confirm:\n✅ Contribution: ₹%s\n💳 Repayment: %s\n\n1. Confirm\n2. Re-enter",
		contribution.String(), repay)
}

// LoanSubmitted renders the loan request acknowledgement.
func (m Messages) LoanSubmitted(amount decimal.Decimal) string {
	return fmt.Sprintf("Your loan request of ₹%s has been sent to your group leader.\nYou will be notified once it is approved. 🌸",
		amount.String())
}

// ScoreDisplay renders the credit score summary.
func (m Messages) ScoreDisplay(score int, band string, savings, outstanding decimal.Decimal) string {
	return fmt.Sprintf("📊 Your Sakhi Summary\n\n⭐ Credit Score: %d/100 (%s)\n💰 Total Savings: ₹%s\n📋 Active Loan: ₹%s\n\nReply 1 for full details",
		score, band, savings.String(), outstanding.String())
}

// LoanDetails renders the member's active loans, or an empty-state line.
func (m Messages) LoanDetails(loans []Loan) string {
	if len(loans) == 0 {
		return "You have no active loans. 🌸"
	}
	lines := make([]string, 0, len(loans))
	for _, l := range loans {
		lines = append(lines, fmt.Sprintf("• ₹%s — %s — Status: %s", l.Amount.String(), l.Purpose, l.Status))
	}
	return "📋 Your Loan Details:\n\n" + strings.Join(lines, "\n")
}

// LeaderContact renders the group leader's contact card.
func (m Messages) LeaderContact(name, phone string) string {
	return fmt.Sprintf("Your group leader is %s.\nPhone: %s", name, phone)
}

// SchemesList renders the schemes the member qualifies for, or an
// empty-state line.
func (m Messages) SchemesList(schemes []Scheme) string {
	if len(schemes) == 0 {
		return "No government schemes found for your profile right now. Keep contributing! 🌸"
	}
	lines := make([]string, 0, len(schemes))
	for _, s := range schemes {
		lines = append(lines, "• "+s.Name)
	}
	return "🏛 Government Schemes you qualify for:\n\n" + strings.Join(lines, "\n") + "\n\nContact your leader for more details."
}

// LoanApproved renders the approval notification the backend pushes through
// the same catalog.
func (m Messages) LoanApproved(amount decimal.Decimal) string {
	return fmt.Sprintf("🎉 Your loan request of ₹%s has been APPROVED!\nYour leader will contact you for disbursement.", amount.String())
}

// SchemeNotification renders an eligibility push notification.
func (m Messages) SchemeNotification(schemeName, benefit string) string {
	return fmt.Sprintf("🏛 Great news! You are eligible for %s.\nBenefit: %s\n\nContact your leader to apply.", schemeName, benefit)
}

// VerificationRequest asks the member to confirm a leader-recorded entry.
func (m Messages) VerificationRequest(action string, amount decimal.Decimal) string {
	return fmt.Sprintf("Your leader has recorded %s: ₹%s.\n\n1. Confirm\n2. Flag as incorrect", action, amount.String())
}

// StartNotRegistered is the /start greeting for a Telegram user the backend
// does not know, with the id their leader needs to register them.
func (m Messages) StartNotRegistered(platformID string) string {
	return "Welcome to Sakhi 🌸\n\nYou are not registered yet.\nPlease contact your SHG leader to register your Telegram ID.\n\n" +
		fmt.Sprintf("Your Telegram ID is: %s\nShare this with your leader.", platformID)
}

// NotRegisteredWithID tells an unregistered user which platform id to share
// with their leader.
func (m Messages) NotRegisteredWithID(platformID string) string {
	return fmt.Sprintf("You are not registered in Sakhi. 🌸\nPlease contact your SHG leader to register you.\n\nYour Telegram ID: %s", platformID)
}
