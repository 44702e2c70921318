// Package i18n holds the supported interface languages and UI string translations.
package i18n

// DefaultLanguage is used when a request names no language or an unknown one.
const DefaultLanguage = "en"

// Language is an interface language and the locale used for speech recognition.
type Language struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	NativeName string `json:"native_name" yaml:"native_name"`
	VoiceCode  string `json:"voice_code" yaml:"voice_code"`
	RTL        bool   `json:"rtl" yaml:"rtl"`
}

var supportedLanguages = []Language{
	{Code: "en", Name: "English", NativeName: "English", VoiceCode: "en-US"},
	{Code: "hi", Name: "Hindi", NativeName: "हिन्दी", VoiceCode: "hi-IN"},
	{Code: "bn", Name: "Bengali", NativeName: "বাংলা", VoiceCode: "bn-IN"},
	{Code: "te", Name: "Telugu", NativeName: "తెలుగు", VoiceCode: "te-IN"},
	{Code: "mr", Name: "Marathi", NativeName: "मराठी", VoiceCode: "mr-IN"},
	{Code: "ta", Name: "Tamil", NativeName: "தமிழ்", VoiceCode: "ta-IN"},
	{Code: "gu", Name: "Gujarati", NativeName: "ગુજરાતી", VoiceCode: "gu-IN"},
	{Code: "kn", Name: "Kannada", NativeName: "ಕನ್ನಡ", VoiceCode: "kn-IN"},
	{Code: "ml", Name: "Malayalam", NativeName: "മലയാളം", VoiceCode: "ml-IN"},
	{Code: "pa", Name: "Punjabi", NativeName: "ਪੰਜਾਬੀ", VoiceCode: "pa-IN"},
}

// SupportedLanguages returns a copy of the supported languages, English first.
func SupportedLanguages() []Language {
	out := make([]Language, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// LookupLanguage finds a supported language by code.
func LookupLanguage(code string) (Language, bool) {
	for _, l := range supportedLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// IsSupported reports whether code is a supported language.
func IsSupported(code string) bool {
	_, ok := LookupLanguage(code)
	return ok
}

// VoiceCode returns the speech locale for a language code, falling back to English.
func VoiceCode(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.VoiceCode
	}
	return supportedLanguages[0].VoiceCode
}
