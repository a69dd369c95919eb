package portal

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"

	"omninews/internal/models"
)

const (
	pageClass   = "min-h-screen bg-stone-50 text-stone-900 font-sans"
	buttonClass = "rounded-md bg-stone-900 px-4 py-2 text-sm font-medium text-white"
	inputClass  = "w-full rounded-md border border-stone-300 px-3 py-2 text-sm"
	alertClass  = "rounded-md border px-4 py-3 text-sm"
)

// themeClasses adjusts the page palette per theme
var themeClasses = map[string]string{
	"dark":  "bg-stone-900 text-stone-100",
	"light": "bg-white text-stone-900",
	"paper": "bg-amber-50 text-stone-900",
}

func bodyClass(theme string) string {
	return twmerge.Merge(pageClass, themeClasses[theme])
}

func alertErrorClass() string {
	return twmerge.Merge(alertClass, "border-red-300 bg-red-50 text-red-800")
}

func submitClass() string {
	return twmerge.Merge(buttonClass, "w-full")
}

func logoutClass() string {
	return twmerge.Merge(buttonClass, "bg-transparent text-inherit px-2")
}

func userTheme(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.Theme
}

// displayName falls back to the email when the account has no name
func displayName(user *models.User) string {
	if user.DisplayName != "" {
		return user.DisplayName
	}
	return user.Email
}
