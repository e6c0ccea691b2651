package domain

// Language enumerates the languages an email can be drafted in.
type Language string

const (
	LanguageArabic  Language = "Arabic"
	LanguageEnglish Language = "English"
	LanguageFrench  Language = "French"
	LanguageSpanish Language = "Spanish"
	LanguageGerman  Language = "German"
)

// Languages lists every supported language in display order.
var Languages = []Language{
	LanguageArabic,
	LanguageEnglish,
	LanguageFrench,
	LanguageSpanish,
	LanguageGerman,
}

// Valid reports whether the value is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageArabic, LanguageEnglish, LanguageFrench, LanguageSpanish, LanguageGerman:
		return true
	}
	return false
}

// Tone enumerates the writing tones a draft can be requested in.
type Tone string

const (
	ToneProfessional Tone = "Professional"
	ToneFriendly     Tone = "Friendly"
	ToneUrgent       Tone = "Urgent"
	TonePersuasive   Tone = "Persuasive"
	ToneFormal       Tone = "Formal"
)

// Valid reports whether the value is one of the supported tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneUrgent, TonePersuasive, ToneFormal:
		return true
	}
	return false
}

// Category enumerates the email categories offered to the user.
type Category string

const (
	CategoryJobApplication Category = "Job Application"
	CategoryMeetingRequest Category = "Meeting Request"
	CategoryFollowUp       Category = "Follow-up"
	CategoryNetworking     Category = "Networking"
	CategoryResignation    Category = "Resignation"
	CategoryComplaint      Category = "Complaint"
	CategoryThankYou       Category = "Thank You"
	CategoryGeneral        Category = "General Business"
)

// Valid reports whether the value is one of the supported categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryJobApplication, CategoryMeetingRequest, CategoryFollowUp,
		CategoryNetworking, CategoryResignation, CategoryComplaint,
		CategoryThankYou, CategoryGeneral:
		return true
	}
	return false
}
